package model

import (
	"slices"
	"strings"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeLongText FieldType = "longtext"
	FieldTypeChoice   FieldType = "choice"
	FieldTypeRange    FieldType = "range"
	FieldTypeEnum     FieldType = "enum"
	FieldTypePhone    FieldType = "phone"
	FieldTypeEmail    FieldType = "email"
)

// Option is one selectable value of a chip group or select field.
type Option struct {
	Value    any    `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
	TestID   string `json:"testId,omitempty"`
}

// Bounds describes the numeric domain of a range field.
type Bounds struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// Field models an individual input inside the form. Struct fields are
// annotated so renderers can serialise them directly when needed.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Value       any               `json:"value,omitempty"`
	Display     string            `json:"display,omitempty"`
	Error       string            `json:"error,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	Bounds      *Bounds           `json:"bounds,omitempty"`
	Group       string            `json:"group,omitempty"`
	Order       int               `json:"order"`
	TestID      string            `json:"testId,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// HasError reports whether the field carries a validation message.
func (f Field) HasError() bool {
	return f.Error != ""
}

// Action is a call-to-action rendered below the fields.
type Action struct {
	Kind   string   `json:"kind"`
	Label  string   `json:"label"`
	Type   string   `json:"type,omitempty"`
	Href   string   `json:"href,omitempty"`
	Icon   string   `json:"icon,omitempty"`
	Lead   []string `json:"lead,omitempty"`
	TestID string   `json:"testId,omitempty"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID        string            `json:"id"`
	Title     []string          `json:"title,omitempty"`
	Direction string            `json:"direction,omitempty"`
	Language  string            `json:"language,omitempty"`
	TestID    string            `json:"testId,omitempty"`
	Fields    []Field           `json:"fields"`
	Actions   []Action          `json:"actions,omitempty"`
	Issues    int               `json:"issues"`
	UIHints   map[string]string `json:"uiHints,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Field returns the field called name.
func (m FormModel) Field(name string) (Field, bool) {
	if idx := m.FieldIndex(name); idx >= 0 {
		return m.Fields[idx], true
	}
	return Field{}, false
}

// FieldIndex returns the position of the field called name, or -1.
func (m FormModel) FieldIndex(name string) int {
	name = strings.TrimSpace(name)
	return slices.IndexFunc(m.Fields, func(f Field) bool { return f.Name == name })
}
