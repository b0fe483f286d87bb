// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance derives display metadata from an article's title and
// abstract: salient keywords, a study-type label, and a structured
// decomposition into objective, methodology, results, and conclusion.
// Everything here is heuristic; the numeric thresholds are tuning, not
// contract.
//
// See docs/ARCHITECTURE.md § Relevance Heuristics.
package relevance

import (
	"regexp"
	"sort"
	"strings"
)

// stopWords are excluded from keyword ranking. Portuguese and English are
// both covered because generated abstracts mix the two.
var stopWords = map[string]bool{
	"the": true, "of": true, "and": true, "in": true, "to": true, "for": true,
	"with": true, "on": true, "is": true, "are": true, "was": true, "were": true,
	"that": true, "this": true, "these": true, "from": true, "by": true,
	"an": true, "be": true, "as": true, "at": true, "or": true, "we": true,
	"study": true, "studies": true, "results": true, "using": true,
	"de": true, "da": true, "do": true, "das": true, "dos": true, "e": true,
	"a": true, "o": true, "os": true, "um": true, "uma": true,
	"em": true, "no": true, "na": true, "nos": true, "nas": true, "para": true,
	"por": true, "com": true, "que": true, "foi": true, "foram": true,
	"entre": true, "sobre": true, "estudo": true,
}

var wordPattern = regexp.MustCompile(`[\p{L}][\p{L}\p{N}-]{2,}`)

// Keywords returns up to max salient keywords from text, ranked by
// frequency after stop-word removal. Ties break alphabetically so the
// output is deterministic.
func Keywords(text string, max int) []string {
	if max <= 0 {
		max = 5
	}

	freq := make(map[string]int)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if stopWords[w] {
			continue
		}
		freq[w]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}

// studyTypePatterns is checked in priority order; the first match wins.
// Higher-evidence designs come first so that, e.g., a systematic review
// of clinical trials classifies as a systematic review.
var studyTypePatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"Systematic Review / Meta-analysis", regexp.MustCompile(`(?i)systematic review|meta-?an[aá]lys[ei]s|revis[ãa]o sistem[áa]tica|metan[áa]lise`)},
	{"Clinical Trial", regexp.MustCompile(`(?i)randomi[sz]ed|clinical trial|ensaio cl[íi]nico|placebo-controlled`)},
	{"Cohort Study", regexp.MustCompile(`(?i)cohort|coorte|prospective stud|longitudinal`)},
	{"Case-Control Study", regexp.MustCompile(`(?i)case-?control|caso-?controle`)},
	{"Cross-Sectional Study", regexp.MustCompile(`(?i)cross-?sectional|transversal|prevalence stud`)},
	{"In Vitro / In Vivo Study", regexp.MustCompile(`(?i)in vitro|in vivo|cell culture|animal model`)},
	{"Computational Study", regexp.MustCompile(`(?i)in silico|simulation|computational|modell?ing stud`)},
	{"Literature Review", regexp.MustCompile(`(?i)literature review|narrative review|revis[ãa]o (de literatura|narrativa)`)},
	{"Case Report", regexp.MustCompile(`(?i)case report|case series|relato de caso`)},
}

// StudyType classifies the study design from title+abstract text. It
// returns an empty string when no pattern matches.
func StudyType(text string) string {
	for _, st := range studyTypePatterns {
		if st.pattern.MatchString(text) {
			return st.label
		}
	}
	return ""
}
