// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"
	"testing"

	"github.com/meshintel/scribe/pkg/types"
)

func testSources() []types.AcademicSource {
	return []types.AcademicSource{
		{URI: "https://doi.org/10.1/a", Title: "Fonte Um", Authors: []string{"Ana Pereira"}, Year: 2020, SourceProvider: "semantic_scholar"},
		{URI: "https://doi.org/10.1/b", Title: "Fonte Dois", Year: 2021},
		{URI: "https://doi.org/10.1/c", Title: "Fonte Três"},
	}
}

func TestParseBlocks(t *testing.T) {
	text := "# Título\n\n## Seção\n### Subseção\nParágrafo normal.\n"

	blocks := Parse(text, nil)
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(blocks))
	}

	wantKinds := []BlockKind{BlockHeading1, BlockHeading2, BlockHeading3, BlockParagraph}
	wantText := []string{"Título", "Seção", "Subseção", "Parágrafo normal."}
	for i := range blocks {
		if blocks[i].Kind != wantKinds[i] {
			t.Errorf("blocks[%d].Kind = %d, want %d", i, blocks[i].Kind, wantKinds[i])
		}
		if len(blocks[i].Spans) != 1 || blocks[i].Spans[0].Text != wantText[i] {
			t.Errorf("blocks[%d] spans = %+v", i, blocks[i].Spans)
		}
	}
}

func TestParseHeadingMarkerMidLineIsLiteral(t *testing.T) {
	blocks := Parse("valor # não é título", nil)
	if len(blocks) != 1 || blocks[0].Kind != BlockParagraph {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[0].Spans[0].Text != "valor # não é título" {
		t.Errorf("span text = %q", blocks[0].Spans[0].Text)
	}
}

func TestParseInlineEmphasis(t *testing.T) {
	blocks := Parse("texto **negrito** e *itálico* fim", nil)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks", len(blocks))
	}

	spans := blocks[0].Spans
	wantKinds := []SpanKind{SpanText, SpanBold, SpanText, SpanItalic, SpanText}
	wantText := []string{"texto ", "negrito", " e ", "itálico", " fim"}
	if len(spans) != len(wantKinds) {
		t.Fatalf("got %d spans: %+v", len(spans), spans)
	}
	for i := range spans {
		if spans[i].Kind != wantKinds[i] || spans[i].Text != wantText[i] {
			t.Errorf("spans[%d] = {%d %q}, want {%d %q}",
				i, spans[i].Kind, spans[i].Text, wantKinds[i], wantText[i])
		}
	}
}

func TestParseCitationResolved(t *testing.T) {
	blocks := Parse("Estudos confirmam [CITE:FONTE_2] (Fonte Dois, 2021) o efeito.", testSources())
	spans := blocks[0].Spans

	var cite *Span
	for i := range spans {
		if spans[i].Kind == SpanCitation {
			cite = &spans[i]
		}
	}
	if cite == nil {
		t.Fatalf("no citation span: %+v", spans)
	}
	if cite.Index != 2 {
		t.Errorf("Index = %d, want 2", cite.Index)
	}
	if cite.Display != "Fonte Dois, 2021" {
		t.Errorf("Display = %q", cite.Display)
	}
	if cite.Source == nil || cite.Source.Title != "Fonte Dois" {
		t.Errorf("Source = %+v, want Fonte Dois", cite.Source)
	}
}

func TestParseCitationOutOfRange(t *testing.T) {
	// Index 5 against 3 sources: display text still renders, no source data.
	blocks := Parse("Conforme [CITE:FONTE_5] (Silva, 2020).", testSources())

	var cite *Span
	for i := range blocks[0].Spans {
		if blocks[0].Spans[i].Kind == SpanCitation {
			cite = &blocks[0].Spans[i]
		}
	}
	if cite == nil {
		t.Fatal("no citation span")
	}
	if cite.Source != nil {
		t.Errorf("out-of-range citation should have nil source, got %+v", cite.Source)
	}
	if cite.Display != "Silva, 2020" {
		t.Errorf("Display = %q", cite.Display)
	}
}

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "heading",
			text: "# Título",
			want: "<h1>Título</h1>\n",
		},
		{
			name: "paragraph with bold",
			text: "um **dois** três",
			want: "<p>um <strong>dois</strong> três</p>\n",
		},
		{
			name: "italic",
			text: "um *dois* três",
			want: "<p>um <em>dois</em> três</p>\n",
		},
		{
			name: "blank lines skipped",
			text: "# A\n\n\nB",
			want: "<h1>A</h1>\n<p>B</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToHTML(tt.text, nil)
			if got != tt.want {
				t.Errorf("ToHTML = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToHTMLEscapesGeneratedText(t *testing.T) {
	// HTML-like substrings in the content must never become live markup.
	got := ToHTML("perigo <script>alert(1)</script> & \"aspas\"", nil)

	if strings.Contains(got, "<script>") {
		t.Errorf("unescaped script tag in output: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("escaped script tag missing: %q", got)
	}
	if !strings.Contains(got, "&amp;") {
		t.Errorf("ampersand not escaped: %q", got)
	}
}

func TestToHTMLEscapesEmphasisContent(t *testing.T) {
	got := ToHTML("**<b>x</b>** e *<i>y</i>*", nil)
	if strings.Contains(got, "<b>") || strings.Contains(got, "<i>") {
		t.Errorf("markup inside emphasis leaked through: %q", got)
	}
	if !strings.Contains(got, "<strong>&lt;b&gt;x&lt;/b&gt;</strong>") {
		t.Errorf("bold content not escaped: %q", got)
	}
}

func TestToHTMLCitation(t *testing.T) {
	got := ToHTML("Ver [CITE:FONTE_1] (Pereira, 2020).", testSources())

	if !strings.Contains(got, `data-index="1"`) {
		t.Errorf("citation index missing: %q", got)
	}
	if !strings.Contains(got, `data-uri="https://doi.org/10.1/a"`) {
		t.Errorf("citation uri missing: %q", got)
	}
	if !strings.Contains(got, "(Pereira, 2020)") {
		t.Errorf("display text missing: %q", got)
	}
	if !strings.Contains(got, "Fonte Um") {
		t.Errorf("popup title missing: %q", got)
	}
}

func TestToHTMLCitationOutOfRange(t *testing.T) {
	got := ToHTML("Ver [CITE:FONTE_9] (Autor, 2020).", testSources())

	if strings.Contains(got, "data-index") {
		t.Errorf("unresolved citation should carry no source data: %q", got)
	}
	if !strings.Contains(got, `<span class="citation">(Autor, 2020)</span>`) {
		t.Errorf("unresolved citation should still show display text: %q", got)
	}
}

func TestToHTMLCitationDisplayEscaped(t *testing.T) {
	got := ToHTML("Ver [CITE:FONTE_1] (<b>Pereira</b>).", testSources())
	if strings.Contains(got, "<b>Pereira</b>") {
		t.Errorf("citation display not escaped: %q", got)
	}
}
