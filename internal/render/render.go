// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render converts generated document text — a constrained markdown
// subset plus inline citation tokens — into a display-safe structure and
// HTML. Original text is HTML-escaped before any markup is emitted, so
// HTML-like substrings in generated content can never become live markup.
// Anything outside the supported subset passes through as literal text.
//
// Supported subset: line-leading #, ##, ### headings; **bold**; *italic*;
// citation tokens of the form [CITE:FONTE_<n>] (<display text>) where <n>
// is a 1-based index into the accompanying source list.
//
// See docs/ARCHITECTURE.md § Rendering.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/meshintel/scribe/pkg/types"
)

// BlockKind classifies a rendered block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading1
	BlockHeading2
	BlockHeading3
)

// SpanKind classifies an inline span.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanItalic
	SpanCitation
)

// Span is one inline run of a block. Text holds the raw (unescaped) text.
// For citation spans, Display is the in-text label, Index the 1-based
// source index, and Source the resolved source — nil when the index is out
// of range, in which case the display text still renders but without
// popup data.
type Span struct {
	Kind    SpanKind
	Text    string
	Display string
	Index   int
	Source  *types.AcademicSource
}

// Block is one rendered block: a heading or paragraph of spans.
type Block struct {
	Kind  BlockKind
	Spans []Span
}

// citationPattern matches inline citation tokens: [CITE:FONTE_3] (Silva, 2020).
var citationPattern = regexp.MustCompile(`\[CITE:FONTE_(\d+)\]\s*\(([^)]*)\)`)

// boldPattern matches **bold** runs.
var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// italicPattern matches *italic* runs.
var italicPattern = regexp.MustCompile(`\*([^*]+)\*`)

// Parse converts text into blocks. Each non-empty line becomes one block;
// heading markers are only recognized at the start of a line.
func Parse(text string, sources []types.AcademicSource) []Block {
	var blocks []Block
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		kind := BlockParagraph
		switch {
		case strings.HasPrefix(line, "### "):
			kind = BlockHeading3
			line = strings.TrimPrefix(line, "### ")
		case strings.HasPrefix(line, "## "):
			kind = BlockHeading2
			line = strings.TrimPrefix(line, "## ")
		case strings.HasPrefix(line, "# "):
			kind = BlockHeading1
			line = strings.TrimPrefix(line, "# ")
		}

		blocks = append(blocks, Block{Kind: kind, Spans: parseInline(line, sources)})
	}
	return blocks
}

// parseInline splits a line into spans: citation tokens first, then bold,
// then italic within the remaining text.
func parseInline(line string, sources []types.AcademicSource) []Span {
	var spans []Span
	for _, seg := range splitByPattern(line, citationPattern) {
		if seg.match == nil {
			spans = append(spans, emphasisSpans(seg.text)...)
			continue
		}

		index, _ := strconv.Atoi(seg.match[1])
		span := Span{
			Kind:    SpanCitation,
			Display: seg.match[2],
			Index:   index,
		}
		if index >= 1 && index <= len(sources) {
			span.Source = &sources[index-1]
		}
		spans = append(spans, span)
	}
	return spans
}

// emphasisSpans parses **bold** and *italic* runs in plain text.
func emphasisSpans(text string) []Span {
	var spans []Span
	for _, seg := range splitByPattern(text, boldPattern) {
		if seg.match != nil {
			spans = append(spans, Span{Kind: SpanBold, Text: seg.match[1]})
			continue
		}
		for _, inner := range splitByPattern(seg.text, italicPattern) {
			if inner.match != nil {
				spans = append(spans, Span{Kind: SpanItalic, Text: inner.match[1]})
			} else if inner.text != "" {
				spans = append(spans, Span{Kind: SpanText, Text: inner.text})
			}
		}
	}
	return spans
}

// segment is one piece of a pattern split: either literal text or a match
// with its submatches.
type segment struct {
	text  string
	match []string
}

// splitByPattern cuts text into literal segments and pattern matches, in
// document order.
func splitByPattern(text string, re *regexp.Regexp) []segment {
	var segs []segment
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, segment{text: text[last:loc[0]]})
		}
		match := make([]string, 0, len(loc)/2)
		for i := 0; i < len(loc); i += 2 {
			if loc[i] < 0 {
				match = append(match, "")
				continue
			}
			match = append(match, text[loc[i]:loc[i+1]])
		}
		segs = append(segs, segment{match: match})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, segment{text: text[last:]})
	}
	return segs
}

// ToHTML renders text as HTML. All original text is escaped before any
// markup tag is written.
func ToHTML(text string, sources []types.AcademicSource) string {
	var b strings.Builder
	for _, block := range Parse(text, sources) {
		tag := "p"
		switch block.Kind {
		case BlockHeading1:
			tag = "h1"
		case BlockHeading2:
			tag = "h2"
		case BlockHeading3:
			tag = "h3"
		}

		b.WriteString("<" + tag + ">")
		for _, span := range block.Spans {
			writeSpan(&b, span)
		}
		b.WriteString("</" + tag + ">\n")
	}
	return b.String()
}

func writeSpan(b *strings.Builder, span Span) {
	switch span.Kind {
	case SpanBold:
		b.WriteString("<strong>" + html.EscapeString(span.Text) + "</strong>")
	case SpanItalic:
		b.WriteString("<em>" + html.EscapeString(span.Text) + "</em>")
	case SpanCitation:
		writeCitation(b, span)
	default:
		b.WriteString(html.EscapeString(span.Text))
	}
}

// writeCitation renders a citation span: the display text in parentheses,
// carrying the resolved source's metadata for a hover popup. An
// unresolved index renders the display text alone.
func writeCitation(b *strings.Builder, span Span) {
	display := "(" + html.EscapeString(span.Display) + ")"
	if span.Source == nil {
		b.WriteString(`<span class="citation">` + display + `</span>`)
		return
	}

	src := span.Source
	info := src.Title
	if len(src.Authors) > 0 {
		info += " — " + strings.Join(src.Authors, ", ")
	}
	if src.Year > 0 {
		info += fmt.Sprintf(" (%d)", src.Year)
	}
	if src.SourceProvider != "" {
		info += " · " + src.SourceProvider
	}

	fmt.Fprintf(b, `<span class="citation" data-index="%d" data-uri="%s" title="%s">%s</span>`,
		span.Index, html.EscapeString(src.URI), html.EscapeString(info), display)
}
