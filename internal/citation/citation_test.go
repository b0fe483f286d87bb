// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"testing"

	"github.com/meshintel/scribe/pkg/types"
)

func TestFromSource(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantDOI string
		wantURL string
	}{
		{"doi.org https", "https://doi.org/10.1000/abc.123", "10.1000/abc.123", ""},
		{"doi.org http", "http://doi.org/10.1000/abc.123", "10.1000/abc.123", ""},
		{"doi prefix", "doi:10.1000/abc.123", "10.1000/abc.123", ""},
		{"plain url", "https://example.org/paper", "", "https://example.org/paper"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromSource(types.AcademicSource{URI: tt.uri, Title: "T"})
			if a.DOI != tt.wantDOI {
				t.Errorf("DOI = %q, want %q", a.DOI, tt.wantDOI)
			}
			if a.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", a.URL, tt.wantURL)
			}
		})
	}
}

func TestFormatABNT(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		want    string
	}{
		{
			name: "single author full record",
			article: Article{
				Title:   "Aprendizado de máquina na educação",
				Authors: []string{"Maria Silva"},
				Year:    2024,
				Journal: "Revista Brasileira de Informática",
				DOI:     "10.1000/rbi.2024.7",
			},
			want: "SILVA, M. Aprendizado de máquina na educação. Revista Brasileira de Informática, 2024. DOI: 10.1000/rbi.2024.7.",
		},
		{
			name: "multiple authors get et al",
			article: Article{
				Title:   "Deep Learning",
				Authors: []string{"Ian Goodfellow", "Yoshua Bengio", "Aaron Courville"},
				Year:    2016,
			},
			want: "GOODFELLOW, I. et al. Deep Learning. 2016.",
		},
		{
			name:    "no authors drops the author segment",
			article: Article{Title: "Relatório anual", Year: 2023},
			want:    "Relatório anual. 2023.",
		},
		{
			name:    "journal without year",
			article: Article{Title: "Nota técnica", Authors: []string{"João Costa"}, Journal: "Boletim"},
			want:    "COSTA, J. Nota técnica. Boletim.",
		},
		{
			name:    "empty article",
			article: Article{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatABNT(tt.article)
			if got != tt.want {
				t.Errorf("FormatABNT =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestFormatABNTSingleAuthor(t *testing.T) {
	// A single author must not get "et al".
	got := FormatABNT(Article{Title: "Obra", Authors: []string{"Ana Pereira"}, Year: 2020})
	want := "PEREIRA, A. Obra. 2020."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatAPA(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		want    string
	}{
		{
			name: "two authors joined with ampersand",
			article: Article{
				Title:   "Attention Is All You Need",
				Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
				Year:    2017,
				Journal: "NeurIPS",
				DOI:     "10.1000/nips.2017",
			},
			want: "Vaswani, A., & Shazeer, N. (2017). Attention Is All You Need. NeurIPS. https://doi.org/10.1000/nips.2017",
		},
		{
			name:    "single author",
			article: Article{Title: "Obra", Authors: []string{"Ana Pereira"}, Year: 2020},
			want:    "Pereira, A. (2020). Obra.",
		},
		{
			name:    "url fallback when no doi",
			article: Article{Title: "Preprint", Authors: []string{"Ana Pereira"}, Year: 2021, URL: "https://example.org/p"},
			want:    "Pereira, A. (2021). Preprint. https://example.org/p",
		},
		{
			name:    "no authors",
			article: Article{Title: "Anônimo", Year: 2019},
			want:    "(2019). Anônimo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAPA(tt.article)
			if got != tt.want {
				t.Errorf("FormatAPA =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestFormatAPATwoAuthorsAmpersand(t *testing.T) {
	got := FormatAPA(Article{
		Title:   "Estudo",
		Authors: []string{"Ana Pereira", "Bruno Lima", "Carla Souza"},
		Year:    2022,
	})
	want := "Pereira, A., Lima, B., & Souza, C. (2022). Estudo."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatAPATruncatesLongAuthorLists(t *testing.T) {
	authors := []string{
		"Ana Pereira", "Bruno Lima", "Carla Souza", "Daniel Rocha",
		"Elena Dias", "Fabio Nunes", "Gabriela Melo", "Hugo Castro",
	}
	got := FormatAPA(Article{Title: "Grande colaboração", Authors: authors, Year: 2023})

	if want := "Pereira, A., Lima, B., Souza, C., Rocha, D., Dias, E., Nunes, F., Melo, G., et al. (2023). Grande colaboração."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatVancouver(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		number  int
		want    string
	}{
		{
			name: "full record",
			article: Article{
				Title:   "AI in primary care",
				Authors: []string{"Maria Clara Silva", "João Costa"},
				Year:    2024,
				Journal: "Lancet Digit Health",
			},
			number: 1,
			want:   "1. Silva MC, Costa J. AI in primary care. Lancet Digit Health. 2024.",
		},
		{
			name:    "no authors",
			article: Article{Title: "Editorial", Year: 2022},
			number:  3,
			want:    "3. Editorial. 2022.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatVancouver(tt.article, tt.number)
			if got != tt.want {
				t.Errorf("FormatVancouver =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestFormatVancouverTruncatesAtSix(t *testing.T) {
	authors := []string{
		"Ana Pereira", "Bruno Lima", "Carla Souza", "Daniel Rocha",
		"Elena Dias", "Fabio Nunes", "Gabriela Melo",
	}
	got := FormatVancouver(Article{Title: "Estudo multicêntrico", Authors: authors, Year: 2023}, 2)
	want := "2. Pereira A, Lima B, Souza C, Rocha D, Dias E, Nunes F, et al. Estudo multicêntrico. 2023."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormattersArePure(t *testing.T) {
	a := Article{Title: "Obra", Authors: []string{"Ana Pereira", "Bruno Lima"}, Year: 2020}

	first := FormatABNT(a)
	FormatAPA(a)
	FormatVancouver(a, 1)
	second := FormatABNT(a)

	if first != second {
		t.Errorf("formatting is not stable: %q then %q", first, second)
	}
	if a.Authors[0] != "Ana Pereira" {
		t.Errorf("formatters must not mutate the article: %v", a.Authors)
	}
}
