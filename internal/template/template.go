// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package template turns a document template plus user-filled fields into
// the generation prompt. Field kinds form a closed set and prompt
// construction switches over them exhaustively, so an unknown kind is an
// error rather than a silently empty segment.
//
// See docs/ARCHITECTURE.md § Templates.
package template

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	texttemplate "text/template"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/scribe/pkg/types"
)

// BuiltIn returns the templates shipped with scribe.
func BuiltIn() []types.Template {
	return []types.Template{
		{
			ID:          "artigo-cientifico",
			Name:        "Artigo Científico",
			Description: "Scientific article with a structured research question.",
			Fields: []types.TemplateField{
				{Key: "tema", Label: "Tema", Kind: types.FieldText, Required: true},
				{Key: "questao", Label: "Questão de pesquisa", Kind: types.FieldTextarea, Required: true},
				{Key: "area", Label: "Área", Kind: types.FieldSelect, Options: []string{"Saúde", "Educação", "Tecnologia", "Ciências Sociais"}, Required: true},
				{Key: "palavras_chave", Label: "Palavras-chave", Kind: types.FieldTags},
			},
			Prompt: "Escreva um artigo científico sobre {{.tema}} na área de {{.area}}. " +
				"Questão de pesquisa: {{.questao}}. Palavras-chave: {{.palavras_chave}}.",
		},
		{
			ID:          "revisao-literatura",
			Name:        "Revisão de Literatura",
			Description: "Narrative literature review over a defined topic and period.",
			Fields: []types.TemplateField{
				{Key: "tema", Label: "Tema", Kind: types.FieldText, Required: true},
				{Key: "periodo", Label: "Período coberto", Kind: types.FieldText},
				{Key: "foco", Label: "Foco da revisão", Kind: types.FieldTextarea},
			},
			Prompt: "Escreva uma revisão de literatura sobre {{.tema}}. " +
				"Período: {{.periodo}}. Foco: {{.foco}}.",
		},
	}
}

// LoadCatalog reads additional templates from a YAML file. A missing path
// returns only the built-ins.
func LoadCatalog(path string) ([]types.Template, error) {
	templates := BuiltIn()
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return templates, nil
		}
		return nil, fmt.Errorf("reading template catalog: %w", err)
	}

	var extra []types.Template
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parsing template catalog: %w", err)
	}
	return append(templates, extra...), nil
}

// Find returns the template with the given id.
func Find(templates []types.Template, id string) (types.Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return types.Template{}, false
}

// BuildPrompt validates the field values against the template and renders
// the generation prompt.
func BuildPrompt(t types.Template, values map[string]types.FieldValue) (string, error) {
	data := make(map[string]string, len(t.Fields))

	for _, field := range t.Fields {
		value, ok := values[field.Key]

		rendered, err := renderField(field, value, ok)
		if err != nil {
			return "", err
		}
		if field.Required && rendered == "" {
			return "", fmt.Errorf("field %q is required", field.Key)
		}
		data[field.Key] = rendered
	}

	tmpl, err := texttemplate.New(t.ID).Parse(t.Prompt)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", t.ID, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", t.ID, err)
	}
	return buf.String(), nil
}

// renderField converts one field value to its prompt string. The switch
// over FieldKind is exhaustive; a kind added to the type without a case
// here fails loudly.
func renderField(field types.TemplateField, value types.FieldValue, present bool) (string, error) {
	switch field.Kind {
	case types.FieldText, types.FieldTextarea:
		return strings.TrimSpace(value.Text), nil

	case types.FieldSelect:
		text := strings.TrimSpace(value.Text)
		if !present || text == "" {
			return "", nil
		}
		for _, opt := range field.Options {
			if text == opt {
				return text, nil
			}
		}
		return "", fmt.Errorf("field %q: %q is not one of %v", field.Key, text, field.Options)

	case types.FieldTags:
		tags := make([]string, 0, len(value.Tags))
		for _, tag := range value.Tags {
			if t := strings.TrimSpace(tag); t != "" {
				tags = append(tags, t)
			}
		}
		return strings.Join(tags, ", "), nil

	default:
		return "", fmt.Errorf("field %q: unknown kind %q", field.Key, field.Kind)
	}
}
