// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation formats bibliographic references in ABNT, APA, and
// Vancouver styles. All formatters are pure functions over an Article
// value; missing fields drop their segment instead of leaving stray
// punctuation.
//
// See docs/ARCHITECTURE.md § Citations.
package citation

import (
	"fmt"
	"strings"

	"github.com/meshintel/scribe/pkg/types"
)

// Article is the bibliographic record the formatters consume.
type Article struct {
	Title   string
	Authors []string
	Year    int
	Journal string
	DOI     string
	URL     string
}

// FromSource adapts a workflow AcademicSource for citation. The source
// URI becomes the DOI when it is one, otherwise the URL.
func FromSource(src types.AcademicSource) Article {
	a := Article{
		Title:   src.Title,
		Authors: src.Authors,
		Year:    src.Year,
	}
	if doi := extractDOI(src.URI); doi != "" {
		a.DOI = doi
	} else {
		a.URL = src.URI
	}
	return a
}

// extractDOI pulls a bare DOI out of a doi.org URL or doi: prefix.
func extractDOI(uri string) string {
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi:"} {
		if strings.HasPrefix(uri, prefix) {
			return strings.TrimPrefix(uri, prefix)
		}
	}
	return ""
}

// FormatABNT renders an ABNT reference: upper-cased surname and initials
// of the first author ("et al." when there are more), title, journal and
// year, DOI.
func FormatABNT(a Article) string {
	var parts []string

	if len(a.Authors) > 0 {
		author := surnameFirst(a.Authors[0], true)
		if len(a.Authors) > 1 {
			author += " et al"
		}
		parts = append(parts, author+".")
	}

	if a.Title != "" {
		parts = append(parts, a.Title+".")
	}

	switch {
	case a.Journal != "" && a.Year > 0:
		parts = append(parts, fmt.Sprintf("%s, %d.", a.Journal, a.Year))
	case a.Journal != "":
		parts = append(parts, a.Journal+".")
	case a.Year > 0:
		parts = append(parts, fmt.Sprintf("%d.", a.Year))
	}

	if a.DOI != "" {
		parts = append(parts, "DOI: "+a.DOI+".")
	}

	return strings.Join(parts, " ")
}

// apaMaxAuthors is the largest author list APA renders in full.
const apaMaxAuthors = 7

// FormatAPA renders an APA reference: surname-first authors up to seven
// with "&" before the last, year in parentheses, title, journal, then DOI
// or URL.
func FormatAPA(a Article) string {
	var parts []string

	if len(a.Authors) > 0 {
		listed := a.Authors
		truncated := false
		if len(listed) > apaMaxAuthors {
			listed = listed[:apaMaxAuthors]
			truncated = true
		}

		names := make([]string, len(listed))
		for i, name := range listed {
			names[i] = surnameFirst(name, false)
		}

		var authors string
		switch {
		case truncated:
			authors = strings.Join(names, ", ") + ", et al."
		case len(names) == 1:
			authors = names[0]
		default:
			authors = strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
		}
		parts = append(parts, authors)
	}

	if a.Year > 0 {
		parts = append(parts, fmt.Sprintf("(%d).", a.Year))
	}
	if a.Title != "" {
		parts = append(parts, a.Title+".")
	}
	if a.Journal != "" {
		parts = append(parts, a.Journal+".")
	}
	switch {
	case a.DOI != "":
		parts = append(parts, "https://doi.org/"+a.DOI)
	case a.URL != "":
		parts = append(parts, a.URL)
	}

	return strings.Join(parts, " ")
}

// vancouverMaxAuthors is the largest author list Vancouver renders in full.
const vancouverMaxAuthors = 6

// FormatVancouver renders a numbered Vancouver reference: up to six
// authors as "Surname Initials" ("et al" when there are more), title,
// journal, year.
func FormatVancouver(a Article, number int) string {
	parts := []string{fmt.Sprintf("%d.", number)}

	if len(a.Authors) > 0 {
		listed := a.Authors
		truncated := false
		if len(listed) > vancouverMaxAuthors {
			listed = listed[:vancouverMaxAuthors]
			truncated = true
		}

		names := make([]string, len(listed))
		for i, name := range listed {
			names[i] = vancouverName(name)
		}
		authors := strings.Join(names, ", ")
		if truncated {
			authors += ", et al"
		}
		parts = append(parts, authors+".")
	}

	if a.Title != "" {
		parts = append(parts, a.Title+".")
	}
	if a.Journal != "" {
		parts = append(parts, a.Journal+".")
	}
	if a.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d.", a.Year))
	}

	return strings.Join(parts, " ")
}

// surnameFirst renders "Given Middle Surname" as "Surname, G. M.". The
// surname is the last space-separated token; upper reports whether to
// upper-case it (ABNT).
func surnameFirst(name string, upper bool) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}

	surname := tokens[len(tokens)-1]
	if upper {
		surname = strings.ToUpper(surname)
	}

	var initials []string
	for _, t := range tokens[:len(tokens)-1] {
		r := []rune(t)
		initials = append(initials, strings.ToUpper(string(r[0]))+".")
	}

	if len(initials) == 0 {
		return surname
	}
	return surname + ", " + strings.Join(initials, " ")
}

// vancouverName renders "Given Middle Surname" as "Surname GM".
func vancouverName(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}

	surname := tokens[len(tokens)-1]
	var initials strings.Builder
	for _, t := range tokens[:len(tokens)-1] {
		r := []rune(t)
		initials.WriteString(strings.ToUpper(string(r[0])))
	}

	if initials.Len() == 0 {
		return surname
	}
	return surname + " " + initials.String()
}
