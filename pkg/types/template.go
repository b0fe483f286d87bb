// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FieldKind classifies a template field. The set is closed; prompt
// construction switches exhaustively over it.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
	FieldTags     FieldKind = "tags"
)

// TemplateField describes one fill-in field of a document template.
type TemplateField struct {
	// Key is the field identifier referenced by the template prompt.
	Key string `json:"key" yaml:"key"`

	// Label is the display name shown to the user.
	Label string `json:"label" yaml:"label"`

	// Kind selects the field type: text, textarea, select, or tags.
	Kind FieldKind `json:"kind" yaml:"kind"`

	// Options lists the allowed values for select fields.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Required marks the field as mandatory for prompt construction.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
}

// FieldValue is a user-supplied value for a template field. Exactly one of
// Text or Tags is meaningful, matching the field's kind: Text for text,
// textarea, and select fields; Tags for tags fields.
type FieldValue struct {
	Text string   `json:"text,omitempty" yaml:"text,omitempty"`
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Template is a document template: a named set of typed fields plus a
// prompt skeleton the filled values are rendered into.
type Template struct {
	// ID uniquely identifies the template (e.g. "artigo-cientifico").
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Description explains what the template produces.
	Description string `json:"description" yaml:"description"`

	// Fields lists the fill-in fields in display order.
	Fields []TemplateField `json:"fields" yaml:"fields"`

	// Prompt is a text/template body referencing fields as {{.fieldkey}}.
	Prompt string `json:"prompt" yaml:"prompt"`
}
