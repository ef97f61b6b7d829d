package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
)

// NoneOption is the first entry of every chip prompt and leaves the group
// without a selection.
const NoneOption = "—"

// Renderer implements render.Renderer for terminal-driven sessions. Every
// answer is applied to an intake engine as an input event; answers the engine
// flags are reported and asked again.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	engineOptions     []intake.Option
	confirmSubmit     bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:       driver,
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs a Session for form and serializes the submitted record.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, _ render.RenderOptions) ([]byte, error) {
	submission, err := r.Session(ctx, form)
	if err != nil {
		return nil, err
	}

	values, err := submissionValues(submission)
	if err != nil {
		return nil, fmt.Errorf("tui: collect values: %w", err)
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

// Session prompts for every field of form, in order, against a fresh engine
// and returns the submitted record. Field values already present on the model
// are offered as defaults.
func (r *Renderer) Session(ctx context.Context, form model.FormModel) (intake.Submission, error) {
	if ctx == nil {
		return intake.Submission{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return intake.Submission{}, err
	}
	if r.driver == nil {
		return intake.Submission{}, ErrNoDriver
	}

	engine := intake.New(r.engineOptions...)
	if err := seed(engine, form); err != nil {
		return intake.Submission{}, err
	}
	for _, field := range form.Fields {
		if err := r.promptField(ctx, engine, field); err != nil {
			return intake.Submission{}, err
		}
	}

	if r.confirmSubmit {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: r.theme.PromptPrefix + submitLabel(form),
			Default: true,
		})
		if err != nil {
			return intake.Submission{}, err
		}
		if !ok {
			return intake.Submission{}, ErrAborted
		}
	}

	return engine.Submit(), nil
}

// seed applies the values already carried by the model so prompts start from
// the same record the form was built from.
func seed(engine *intake.Engine, form model.FormModel) error {
	for _, field := range form.Fields {
		if valueString(field.Value) == "" {
			continue
		}
		if _, err := engine.Apply(intake.Event{Field: intake.Field(field.Name), Value: field.Value}); err != nil {
			return fmt.Errorf("tui: seed %q: %w", field.Name, err)
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, engine *intake.Engine, field model.Field) error {
	switch field.Type {
	case model.FieldTypeChoice:
		return r.promptChoice(ctx, engine, field)
	case model.FieldTypeEnum:
		return r.promptEnum(ctx, engine, field)
	case model.FieldTypeRange:
		return r.promptRange(ctx, engine, field)
	default:
		return r.promptText(ctx, engine, field)
	}
}

// promptText asks until the engine accepts the answer. Reverted answers fall
// back to the stored value as the next default; committed but flagged answers
// are offered again as typed.
func (r *Renderer) promptText(ctx context.Context, engine *intake.Engine, field model.Field) error {
	name := intake.Field(field.Name)
	defaultVal := valueString(field.Value)
	multiline := field.Type == model.FieldTypeLongText || field.UIHints["widget"] == "textarea"

	for {
		var (
			answer string
			err    error
		)
		if multiline {
			answer, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: r.message(field),
				Default: defaultVal,
				Help:    field.Placeholder,
			})
		} else {
			answer, err = r.driver.Input(ctx, InputConfig{
				Message:     r.message(field),
				Default:     defaultVal,
				Help:        field.Placeholder,
				Placeholder: field.Placeholder,
			})
		}
		if err != nil {
			return err
		}

		out, err := engine.Apply(intake.Event{Field: name, Value: answer})
		if err != nil {
			return fmt.Errorf("tui: field %q: %w", field.Name, err)
		}
		if out.Result.Valid {
			return nil
		}

		r.reportError(ctx, out.Result.Message)
		if out.Committed {
			defaultVal = answer
		} else {
			defaultVal, _ = engine.State().Text(name)
		}
	}
}

func (r *Renderer) promptChoice(ctx context.Context, engine *intake.Engine, field model.Field) error {
	name := intake.Field(field.Name)
	options := make([]string, 0, len(field.Options)+1)
	options = append(options, NoneOption)
	defaultIdx := 0
	for idx, opt := range field.Options {
		options = append(options, opt.Label)
		if opt.Selected {
			defaultIdx = idx + 1
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      r.message(field),
			Options:      options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			r.reportError(ctx, fmt.Sprintf("invalid %s selection", field.Name))
			continue
		}

		current, _ := engine.State().Choice(name)
		if idx == 0 {
			if v, ok := current.Value(); ok {
				_, err = engine.Toggle(name, v)
			}
			return err
		}

		opt := field.Options[idx-1]
		if engine.IsSelected(name, opt.Value) {
			return nil
		}
		if _, err := engine.Apply(intake.Event{Field: name, Value: opt.Value}); err != nil {
			return fmt.Errorf("tui: field %q: %w", field.Name, err)
		}
		return nil
	}
}

func (r *Renderer) promptEnum(ctx context.Context, engine *intake.Engine, field model.Field) error {
	name := intake.Field(field.Name)
	options := make([]string, 0, len(field.Options))
	defaultIdx := -1
	for idx, opt := range field.Options {
		options = append(options, opt.Label)
		if opt.Selected {
			defaultIdx = idx
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      r.message(field),
			Options:      options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			r.reportError(ctx, fmt.Sprintf("invalid %s selection", field.Name))
			continue
		}
		if _, err := engine.Apply(intake.Event{Field: name, Value: field.Options[idx].Value}); err != nil {
			return fmt.Errorf("tui: field %q: %w", field.Name, err)
		}
		return nil
	}
}

// promptRange asks for a value inside the field bounds on the step grid. An
// empty answer keeps the current value.
func (r *Renderer) promptRange(ctx context.Context, engine *intake.Engine, field model.Field) error {
	name := intake.Field(field.Name)
	bounds := model.Bounds{Min: intake.BudgetFloor, Max: intake.BudgetCeiling, Step: intake.BudgetStep}
	if field.Bounds != nil {
		bounds = *field.Bounds
	}
	check := func(raw string) error {
		_, err := parseRange(raw, bounds)
		return err
	}

	help := fmt.Sprintf("%s - %s", intake.FormatCurrency(bounds.Min), intake.FormatCurrency(bounds.Max))
	if field.Display != "" {
		help = field.Display
	}

	for {
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   r.message(field),
			Default:   valueString(field.Value),
			Help:      help,
			Validator: check,
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(answer) == "" {
			return nil
		}
		v, err := parseRange(answer, bounds)
		if err != nil {
			r.reportError(ctx, err.Error())
			continue
		}
		if _, err := engine.Apply(intake.Event{Field: name, Value: v}); err != nil {
			return fmt.Errorf("tui: field %q: %w", field.Name, err)
		}
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+intake.BudgetLabel(engine.State()))
		return nil
	}
}

func parseRange(raw string, bounds model.Bounds) (int, error) {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(raw)
	if cleaned == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	if v < bounds.Min || v > bounds.Max {
		return 0, fmt.Errorf("%d is outside %d-%d", v, bounds.Min, bounds.Max)
	}
	if bounds.Step > 0 && (v-bounds.Min)%bounds.Step != 0 {
		return 0, fmt.Errorf("%d is not a multiple of %d", v, bounds.Step)
	}
	return v, nil
}

func (r *Renderer) message(field model.Field) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Name
	}
	return r.theme.PromptPrefix + label
}

func (r *Renderer) reportError(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func submitLabel(form model.FormModel) string {
	for _, action := range form.Actions {
		if action.Type == "submit" || action.Kind == "primary" {
			return action.Label
		}
	}
	return "Submit?"
}

func valueString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	default:
		return fmt.Sprint(value)
	}
}

// submissionValues flattens a submission into the value fields plus an
// "issues" map of field to message when any are present.
func submissionValues(sub intake.Submission) (map[string]any, error) {
	raw, err := json.Marshal(sub.Values)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	values := map[string]any{}
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}
	if len(sub.Issues) > 0 {
		issues := make(map[string]any, len(sub.Issues))
		for _, issue := range sub.Issues {
			issues[issue.Field] = issue.Message
		}
		values["issues"] = issues
	}
	return values, nil
}
