package widgets

import (
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Built-in widgets.
const (
	WidgetInput    = "input"
	WidgetTextarea = "textarea"
	WidgetChips    = "chips"
	WidgetRange    = "range"
	WidgetSelect   = "select"
	WidgetTel      = "tel"
	WidgetEmail    = "email"
)

// Matcher reports whether a widget fits field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
}

// Registry picks a widget for each field. Rules are kept ordered by
// descending priority; equal priorities keep registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry returns a registry loaded with the built-in rules.
func NewRegistry() *Registry {
	reg := &Registry{}
	for _, kind := range []struct {
		widget string
		typ    model.FieldType
	}{
		{WidgetInput, model.FieldTypeText},
		{WidgetTextarea, model.FieldTypeLongText},
		{WidgetRange, model.FieldTypeRange},
		{WidgetTel, model.FieldTypePhone},
		{WidgetEmail, model.FieldTypeEmail},
	} {
		reg.Register(kind.widget, 50, ofType(kind.typ, false))
	}
	reg.Register(WidgetChips, 80, ofType(model.FieldTypeChoice, true))
	reg.Register(WidgetSelect, 70, ofType(model.FieldTypeEnum, true))
	return reg
}

// Register adds matcher under name. Blank names and nil matchers are ignored.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	name = strings.TrimSpace(name)
	if r == nil || matcher == nil || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	at := len(r.rules)
	for i, existing := range r.rules {
		if priority > existing.priority {
			at = i
			break
		}
	}
	r.rules = slices.Insert(r.rules, at, rule{name: name, priority: priority, match: matcher})
}

// Resolve returns the widget for field. A "widget" UI hint always wins.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.UIHints["widget"]); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, candidate := range r.rules {
		if candidate.match(field) {
			return candidate.name, true
		}
	}
	return "", false
}

// Decorate fills UIHints["widget"] on every field that resolves.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	for idx := range form.Fields {
		field := &form.Fields[idx]
		widget, ok := r.Resolve(*field)
		if !ok {
			continue
		}
		if field.UIHints == nil {
			field.UIHints = make(map[string]string, 1)
		}
		field.UIHints["widget"] = widget
	}
	return nil
}

// ofType matches fields of typ. Option-backed types need at least one option.
func ofType(typ model.FieldType, needsOptions bool) Matcher {
	return func(field model.Field) bool {
		return field.Type == typ && (!needsOptions || len(field.Options) > 0)
	}
}
