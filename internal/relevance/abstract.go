// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"regexp"
	"strings"
)

// StructuredAbstract is the role decomposition of an abstract. Fields are
// empty when no suitable sentence was found.
type StructuredAbstract struct {
	Objective   string `json:"objective,omitempty" yaml:"objective,omitempty"`
	Methodology string `json:"methodology,omitempty" yaml:"methodology,omitempty"`
	Results     string `json:"results,omitempty" yaml:"results,omitempty"`
	Conclusion  string `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
}

// sectionLabels maps explicit abstract headers to roles. Labeled sections
// always take priority over positional selection.
var sectionLabels = []struct {
	role    string
	pattern *regexp.Regexp
}{
	{"objective", regexp.MustCompile(`(?i)^\s*(objectives?|objetivos?|aims?|purpose|background and aims?)\s*[:\-]`)},
	{"methodology", regexp.MustCompile(`(?i)^\s*(methods?|methodology|m[ée]todos?|materials and methods|metodologia)\s*[:\-]`)},
	{"results", regexp.MustCompile(`(?i)^\s*(results?|resultados?|findings)\s*[:\-]`)},
	{"conclusion", regexp.MustCompile(`(?i)^\s*(conclusions?|conclus[ãa]o|conclus[õo]es)\s*[:\-]`)},
}

// anyLabelPattern finds labeled section headers anywhere in running text.
var anyLabelPattern = regexp.MustCompile(`(?i)(objectives?|objetivos?|aims?|purpose|methods?|methodology|m[ée]todos?|metodologia|materials and methods|results?|resultados?|findings|conclusions?|conclus[ãa]o|conclus[õo]es)\s*[:\-]`)

// Sentence-selection keyword sets for the positional fallback.
var (
	objectiveWords  = regexp.MustCompile(`(?i)\b(objective|aim|purpose|investigate|evaluate|assess|examine|objetivo|avaliar|investigar|analisar)\b`)
	methodWords     = regexp.MustCompile(`(?i)\b(method|conducted|performed|sample|participants|recruited|measured|metodologia|realizado|utilizou|amostra)\b`)
	resultWords     = regexp.MustCompile(`(?i)\b(found|showed|observed|significant|demonstrated|increased|decreased|resultados|mostrou|observou)\b|\d+(\.\d+)?%`)
	conclusionWords = regexp.MustCompile(`(?i)\b(conclu|suggest|indicate|highlight|portanto|therefore|overall)\b`)
)

// Fragment filter: sentences shorter than this, in characters or words,
// are rejected as fragments. Tuning values, not contracts.
const (
	minSentenceChars = 40
	minSentenceWords = 6
)

// Positional windows for the fallback: the objective is expected near the
// start, results in the middle stretch, the conclusion near the end.
// Implementation-defined tuning.
const (
	objectiveWindow = 3    // first N sentences
	resultsWindowLo = 0.35 // fraction of the sentence list
	resultsWindowHi = 0.75
	conclusionTail  = 0.75 // conclusion preferred past this fraction
)

// DecomposeAbstract extracts objective, methodology, results, and
// conclusion from abstract text. Explicitly labeled sections win; without
// labels, sentences are selected by keywords and position. A sentence is
// never assigned to two roles.
func DecomposeAbstract(text string) StructuredAbstract {
	if labeled, ok := decomposeLabeled(text); ok {
		return labeled
	}
	return decomposePositional(text)
}

// decomposeLabeled handles abstracts with explicit section headers. It
// reports ok when at least two labeled sections were found; fewer means
// the labels are probably incidental and the positional fallback applies.
func decomposeLabeled(text string) (StructuredAbstract, bool) {
	locs := anyLabelPattern.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return StructuredAbstract{}, false
	}

	var out StructuredAbstract
	found := 0
	for i, loc := range locs {
		header := text[loc[0]:loc[1]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(text[loc[1]:end])
		if body == "" {
			continue
		}

		for _, sl := range sectionLabels {
			if !sl.pattern.MatchString(header) {
				continue
			}
			if assignRole(&out, sl.role, body) {
				found++
			}
			break
		}
	}
	return out, found >= 2
}

// assignRole sets the role field if it is still empty.
func assignRole(out *StructuredAbstract, role, body string) bool {
	switch role {
	case "objective":
		if out.Objective == "" {
			out.Objective = body
			return true
		}
	case "methodology":
		if out.Methodology == "" {
			out.Methodology = body
			return true
		}
	case "results":
		if out.Results == "" {
			out.Results = body
			return true
		}
	case "conclusion":
		if out.Conclusion == "" {
			out.Conclusion = body
			return true
		}
	}
	return false
}

// decomposePositional selects sentences by keywords and position when no
// labeled sections exist.
func decomposePositional(text string) StructuredAbstract {
	sentences := splitSentences(text)
	used := make(map[int]bool)
	var out StructuredAbstract

	// Objective: keyword match within the opening sentences, else the
	// first substantial sentence.
	limit := objectiveWindow
	if limit > len(sentences) {
		limit = len(sentences)
	}
	idx := findSentence(sentences, 0, limit, objectiveWords, used)
	if idx < 0 && len(sentences) > 0 && !used[0] {
		idx = 0
	}
	if idx >= 0 {
		out.Objective = sentences[idx]
		used[idx] = true
	}

	// Methodology: keyword match anywhere.
	if idx = findSentence(sentences, 0, len(sentences), methodWords, used); idx >= 0 {
		out.Methodology = sentences[idx]
		used[idx] = true
	}

	// Results: prefer the middle window, then anywhere.
	lo := int(float64(len(sentences)) * resultsWindowLo)
	hi := int(float64(len(sentences)) * resultsWindowHi)
	if idx = findSentence(sentences, lo, hi+1, resultWords, used); idx < 0 {
		idx = findSentence(sentences, 0, len(sentences), resultWords, used)
	}
	if idx >= 0 {
		out.Results = sentences[idx]
		used[idx] = true
	}

	// Conclusion: prefer the tail, then the last unused sentence.
	tail := int(float64(len(sentences)) * conclusionTail)
	if idx = findSentence(sentences, tail, len(sentences), conclusionWords, used); idx < 0 {
		idx = findSentence(sentences, 0, len(sentences), conclusionWords, used)
	}
	if idx < 0 {
		for i := len(sentences) - 1; i >= 0; i-- {
			if !used[i] {
				idx = i
				break
			}
		}
	}
	if idx >= 0 {
		out.Conclusion = sentences[idx]
		used[idx] = true
	}

	return out
}

// findSentence returns the index of the first unused sentence in
// [from, to) matching the pattern, or -1.
func findSentence(sentences []string, from, to int, pattern *regexp.Regexp, used map[int]bool) int {
	if from < 0 {
		from = 0
	}
	if to > len(sentences) {
		to = len(sentences)
	}
	for i := from; i < to; i++ {
		if used[i] {
			continue
		}
		if pattern.MatchString(sentences[i]) {
			return i
		}
	}
	return -1
}

var sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)`)

// splitSentences cuts text into sentences and drops fragments below the
// minimum length filters.
func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[last:loc[1]])
		last = loc[1]
		if keepSentence(s) {
			sentences = append(sentences, s)
		}
	}
	if s := strings.TrimSpace(text[last:]); keepSentence(s) {
		sentences = append(sentences, s)
	}
	return sentences
}

func keepSentence(s string) bool {
	return len(s) >= minSentenceChars && len(strings.Fields(s)) >= minSentenceWords
}
