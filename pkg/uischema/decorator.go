package uischema

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgmodel "github.com/goliatone/go-leadform/pkg/model"
)

const (
	layoutOrderKey  = "layout.order"
	layoutSourceKey = "layout.source"
)

// Decorator applies UI schema copy to a form model.
type Decorator struct {
	store *Store
}

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate augments the supplied form model with UI schema copy. When no
// matching form is found the model is left untouched.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.store == nil || d.store.Empty() || form == nil {
		return nil
	}

	cfg, ok := d.store.Form(form.ID)
	if !ok {
		return nil
	}

	applyFormConfig(form, cfg)
	return applyFieldConfig(form, cfg)
}

func applyFormConfig(form *pkgmodel.FormModel, cfg Form) {
	form.Metadata = mergeStringMap(form.Metadata, cfg.Form.Metadata)
	form.UIHints = mergeStringMap(form.UIHints, cfg.Form.UIHints)
	form.Metadata = ensureMetadata(form.Metadata)
	form.Metadata[layoutSourceKey] = cfg.Source

	if len(cfg.Form.Title) > 0 {
		form.Title = append([]string(nil), cfg.Form.Title...)
	}
	if cfg.Form.Direction != "" {
		form.Direction = cfg.Form.Direction
	}
	if cfg.Form.Language != "" {
		form.Language = cfg.Form.Language
	}
	if len(cfg.Form.Actions) > 0 {
		form.Actions = make([]pkgmodel.Action, 0, len(cfg.Form.Actions))
		for _, action := range cfg.Form.Actions {
			form.Actions = append(form.Actions, pkgmodel.Action{
				Kind:   action.Kind,
				Label:  action.Label,
				Type:   action.Type,
				Href:   action.Href,
				Icon:   action.Icon,
				Lead:   append([]string(nil), action.Lead...),
				TestID: action.TestID,
			})
		}
	}
}

func applyFieldConfig(form *pkgmodel.FormModel, cfg Form) error {
	index := make(map[string]int, len(form.Fields))
	for idx, field := range form.Fields {
		index[field.Name] = idx
	}

	explicit := make(map[string]int, len(cfg.Fields))
	for name, fieldCfg := range cfg.Fields {
		idx, ok := index[name]
		if !ok {
			return fmt.Errorf("uischema: form %q (file %s) references unknown field %q", cfg.ID, cfg.Source, name)
		}
		field := &form.Fields[idx]

		applyFieldCopy(field, fieldCfg)
		if err := applyOptionLabels(field, fieldCfg); err != nil {
			return fmt.Errorf("uischema: form %q (file %s) field %q: %w", cfg.ID, cfg.Source, name, err)
		}
		mergeFieldMaps(field, fieldCfg)

		if fieldCfg.Order != nil {
			explicit[name] = *fieldCfg.Order
			field.Metadata = ensureMetadata(field.Metadata)
			field.Metadata[layoutOrderKey] = strconv.Itoa(*fieldCfg.Order)
		}
	}

	if len(explicit) > 0 {
		reorderFields(form.Fields, explicit)
	}
	return nil
}

func applyFieldCopy(field *pkgmodel.Field, cfg FieldConfig) {
	if cfg.Label != "" {
		field.Label = cfg.Label
	}
	if cfg.Placeholder != "" {
		field.Placeholder = cfg.Placeholder
	}
	if cfg.TestID != "" {
		field.TestID = cfg.TestID
	}
	if cfg.Widget != "" {
		field.UIHints = ensureUIHints(field.UIHints)
		field.UIHints["widget"] = cfg.Widget
	}
	if cfg.CSSClass != "" {
		field.UIHints = ensureUIHints(field.UIHints)
		field.UIHints["cssClass"] = cfg.CSSClass
	}
}

func applyOptionLabels(field *pkgmodel.Field, cfg FieldConfig) error {
	if len(cfg.Options) == 0 {
		return nil
	}
	if len(field.Options) == 0 {
		return errors.New("option labels given for a field without options")
	}
	known := make(map[string]int, len(field.Options))
	for idx, opt := range field.Options {
		known[fmt.Sprint(opt.Value)] = idx
	}
	for value, label := range cfg.Options {
		idx, ok := known[strings.TrimSpace(value)]
		if !ok {
			return fmt.Errorf("unknown option %q", value)
		}
		field.Options[idx].Label = label
	}
	return nil
}

func mergeFieldMaps(field *pkgmodel.Field, cfg FieldConfig) {
	if len(cfg.UIHints) > 0 {
		field.UIHints = ensureUIHints(field.UIHints)
		for key, value := range cfg.UIHints {
			field.UIHints[key] = value
		}
	}
	if len(cfg.Metadata) > 0 {
		field.Metadata = ensureMetadata(field.Metadata)
		for key, value := range cfg.Metadata {
			field.Metadata[key] = value
		}
	}
}

// reorderFields moves fields with an explicit order ahead of the rest. Fields
// without one keep their relative position.
func reorderFields(fields []pkgmodel.Field, explicit map[string]int) {
	sort.SliceStable(fields, func(i, j int) bool {
		orderI, okI := explicit[fields[i].Name]
		orderJ, okJ := explicit[fields[j].Name]
		switch {
		case okI && okJ:
			return orderI < orderJ
		case okI:
			return true
		default:
			return false
		}
	})
	for idx := range fields {
		fields[idx].Order = idx
	}
}

func ensureMetadata(m map[string]string) map[string]string {
	if m == nil {
		return make(map[string]string)
	}
	return m
}

func ensureUIHints(m map[string]string) map[string]string {
	if m == nil {
		return make(map[string]string)
	}
	return m
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
