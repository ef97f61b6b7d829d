package uischema

import (
	"sort"
	"strings"
)

// Store keeps the parsed forms from UI schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	forms map[string]Form
}

// Form describes the copy and layout overrides for one form id.
type Form struct {
	ID     string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// FormConfig captures page-level copy plus action buttons.
type FormConfig struct {
	Title     []string          `json:"title" yaml:"title"`
	Direction string            `json:"direction" yaml:"direction"`
	Language  string            `json:"language" yaml:"language"`
	Actions   []ActionConfig    `json:"actions" yaml:"actions"`
	Metadata  map[string]string `json:"metadata" yaml:"metadata"`
	UIHints   map[string]string `json:"uiHints" yaml:"uiHints"`
}

// ActionConfig serialises call-to-action buttons rendered alongside the form.
// Lead holds the lines of copy shown above the button.
type ActionConfig struct {
	Kind   string   `json:"kind" yaml:"kind"`
	Label  string   `json:"label" yaml:"label"`
	Href   string   `json:"href,omitempty" yaml:"href,omitempty"`
	Type   string   `json:"type,omitempty" yaml:"type,omitempty"`
	Icon   string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Lead   []string `json:"lead,omitempty" yaml:"lead,omitempty"`
	TestID string   `json:"testId,omitempty" yaml:"testId,omitempty"`
}

// FieldConfig customises how a field is presented. Options maps an option
// value (as text) to its display label.
type FieldConfig struct {
	Order       *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Widget      string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	CSSClass    string            `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
	TestID      string            `json:"testId,omitempty" yaml:"testId,omitempty"`
	Options     map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty" yaml:"uiHints,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Form returns the configuration for the supplied form id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[strings.TrimSpace(id)]
	return form, ok
}

// IDs lists the loaded form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}
