package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Transformer mutates a FormModel after it is built and before decorators run.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer patches copy and hints from a YAML or JSON document:
//
//	metadata: {campaign: spring}
//	uiHints: {theme.variant: dark}
//	fields:
//	  location: {placeholder: תל אביב, uiHints: {width: half}}
//
// Field names are fixed; the browser runtime posts events by name.
type PresetTransformer struct {
	preset preset
}

type preset struct {
	Metadata map[string]string      `json:"metadata" yaml:"metadata"`
	UIHints  map[string]string      `json:"uiHints" yaml:"uiHints"`
	Fields   map[string]fieldPreset `json:"fields" yaml:"fields"`
}

type fieldPreset struct {
	Label       string            `json:"label" yaml:"label"`
	Placeholder string            `json:"placeholder" yaml:"placeholder"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
	UIHints     map[string]string `json:"uiHints" yaml:"uiHints"`
}

// NewPresetTransformer parses data. JSON documents are valid YAML.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset: document is empty")
	}
	var doc preset
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("preset: parse: %w", err)
	}
	return &PresetTransformer{preset: doc}, nil
}

// NewPresetTransformerFromFS reads and parses path from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform fails when the preset names a field the form does not have.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	form.Metadata = overlay(form.Metadata, t.preset.Metadata)
	form.UIHints = overlay(form.UIHints, t.preset.UIHints)

	for name, patch := range t.preset.Fields {
		idx := form.FieldIndex(name)
		if idx < 0 {
			return fmt.Errorf("preset: field %q not found", name)
		}
		field := &form.Fields[idx]
		if patch.Label != "" {
			field.Label = patch.Label
		}
		if patch.Placeholder != "" {
			field.Placeholder = patch.Placeholder
		}
		field.Metadata = overlay(field.Metadata, patch.Metadata)
		field.UIHints = overlay(field.UIHints, patch.UIHints)
	}
	return nil
}

func overlay(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	maps.Copy(dst, src)
	return dst
}
