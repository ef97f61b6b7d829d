package vanilla

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/widgets"
)

// fieldRenderer writes the markup of every section of the form. Fields that
// share a group are rendered inside one section under the first field's label.
type fieldRenderer struct {
	chrome chrome
}

func (r fieldRenderer) renderFields(fields []model.Field) (string, error) {
	var b strings.Builder
	for _, group := range groupFields(fields) {
		if err := r.renderSection(&b, group); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func groupFields(fields []model.Field) [][]model.Field {
	var groups [][]model.Field
	for _, field := range fields {
		last := len(groups) - 1
		if last >= 0 && field.Group != "" && groups[last][0].Group == field.Group {
			groups[last] = append(groups[last], field)
			continue
		}
		groups = append(groups, []model.Field{field})
	}
	return groups
}

func (r fieldRenderer) renderSection(b *strings.Builder, group []model.Field) error {
	lead := group[0]

	b.WriteString(`<section class="`)
	b.WriteString(r.chrome.element(ElementSection))
	b.WriteString(`"`)
	writeAttr(b, "data-field-group", lead.Group)
	b.WriteString(">\n")

	if strings.TrimSpace(lead.Label) != "" && lead.UIHints["hideLabel"] != "true" {
		b.WriteString(`  <label class="`)
		b.WriteString(r.chrome.element(ElementLabel))
		b.WriteString(`" for="`)
		b.WriteString(html.EscapeString(controlID(lead.Name)))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(lead.Label))
		b.WriteString("</label>\n")
	}

	if len(group) == 1 {
		if err := r.renderControl(b, lead, false); err != nil {
			return err
		}
		r.renderError(b, lead)
		b.WriteString("</section>\n")
		return nil
	}

	b.WriteString(`  <div class="`)
	b.WriteString(r.chrome.element(ElementContactRow))
	b.WriteString("\">\n")
	for idx, field := range group {
		b.WriteString(`  <div class="`)
		b.WriteString(r.chrome.element(ElementInputGroup))
		b.WriteString("\">\n")
		if err := r.renderControl(b, field, idx > 0); err != nil {
			return err
		}
		r.renderError(b, field)
		b.WriteString("  </div>\n")
	}
	b.WriteString("  </div>\n</section>\n")
	return nil
}

// renderControl writes the input for field. Controls that do not own the
// section label carry their label as aria-label instead.
func (r fieldRenderer) renderControl(b *strings.Builder, field model.Field, ariaLabel bool) error {
	widget := strings.TrimSpace(field.UIHints["widget"])
	if widget == "" {
		widget = fallbackWidget(field.Type)
	}

	switch widget {
	case widgets.WidgetInput, widgets.WidgetTel, widgets.WidgetEmail:
		r.renderInput(b, field, widget, ariaLabel)
	case widgets.WidgetTextarea:
		r.renderTextarea(b, field, ariaLabel)
	case widgets.WidgetChips:
		r.renderChips(b, field)
	case widgets.WidgetRange:
		r.renderRange(b, field)
	case widgets.WidgetSelect:
		r.renderSelect(b, field)
	default:
		return fmt.Errorf("vanilla renderer: unsupported widget %q for field %q", widget, field.Name)
	}
	return nil
}

func fallbackWidget(t model.FieldType) string {
	switch t {
	case model.FieldTypeLongText:
		return widgets.WidgetTextarea
	case model.FieldTypeChoice:
		return widgets.WidgetChips
	case model.FieldTypeRange:
		return widgets.WidgetRange
	case model.FieldTypeEnum:
		return widgets.WidgetSelect
	case model.FieldTypePhone:
		return widgets.WidgetTel
	case model.FieldTypeEmail:
		return widgets.WidgetEmail
	default:
		return widgets.WidgetInput
	}
}

func (r fieldRenderer) controlClass(element string, field model.Field) string {
	class := r.chrome.classes(element,
		mod(ModifierHalf, field.UIHints["width"] == "half"),
		mod(ModifierError, field.HasError()),
	)
	if extra := sanitizeClassList(field.UIHints["cssClass"]); extra != "" {
		class += " " + extra
	}
	return class
}

func (r fieldRenderer) renderInput(b *strings.Builder, field model.Field, widget string, ariaLabel bool) {
	inputType := "text"
	switch widget {
	case widgets.WidgetTel:
		inputType = "tel"
	case widgets.WidgetEmail:
		inputType = "email"
	}

	b.WriteString(`  <input type="`)
	b.WriteString(inputType)
	b.WriteString(`"`)
	r.writeCommonAttrs(b, field, ariaLabel)
	writeAttr(b, "class", r.controlClass(ElementInput, field))
	writeAttr(b, "placeholder", field.Placeholder)
	b.WriteString(` value="`)
	b.WriteString(html.EscapeString(valueString(field.Value)))
	b.WriteString(`"`)
	if widget == widgets.WidgetTel {
		b.WriteString(` inputmode="numeric"`)
	}
	b.WriteString(" />\n")
}

func (r fieldRenderer) renderTextarea(b *strings.Builder, field model.Field, ariaLabel bool) {
	b.WriteString(`  <textarea`)
	r.writeCommonAttrs(b, field, ariaLabel)
	writeAttr(b, "class", r.controlClass(ElementTextarea, field))
	writeAttr(b, "placeholder", field.Placeholder)
	b.WriteString(">")
	b.WriteString(html.EscapeString(valueString(field.Value)))
	b.WriteString("</textarea>\n")
}

func (r fieldRenderer) renderChips(b *strings.Builder, field model.Field) {
	b.WriteString(`  <div class="`)
	b.WriteString(r.chrome.element(ElementChips))
	b.WriteString(`" role="group"`)
	writeAttr(b, "data-testid", field.TestID)
	writeAttr(b, "data-field", field.Name)
	b.WriteString(">\n")
	for _, opt := range field.Options {
		b.WriteString(`    <button type="button"`)
		writeAttr(b, "class", r.chrome.classes(ElementChip, mod(ModifierActive, opt.Selected)))
		writeAttr(b, "data-field", field.Name)
		writeAttr(b, "data-value", valueString(opt.Value))
		b.WriteString(` aria-pressed="`)
		b.WriteString(strconv.FormatBool(opt.Selected))
		b.WriteString(`"`)
		writeAttr(b, "data-testid", opt.TestID)
		b.WriteString(">")
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString("</button>\n")
	}
	b.WriteString("  </div>\n")
}

func (r fieldRenderer) renderRange(b *strings.Builder, field model.Field) {
	bounds := model.Bounds{}
	if field.Bounds != nil {
		bounds = *field.Bounds
	}

	b.WriteString(`  <div class="`)
	b.WriteString(r.chrome.element(ElementBudget))
	b.WriteString("\">\n")
	b.WriteString(`    <span class="`)
	b.WriteString(r.chrome.element(ElementBudgetLabel))
	b.WriteString(`" data-testid="budget-label" aria-live="polite">`)
	b.WriteString(html.EscapeString(field.Display))
	b.WriteString("</span>\n")
	b.WriteString(`    <input type="range"`)
	r.writeCommonAttrs(b, field, true)
	writeAttr(b, "class", r.chrome.element(ElementRange))
	fmt.Fprintf(b, ` min="%d" max="%d" step="%d"`, bounds.Min, bounds.Max, bounds.Step)
	b.WriteString(` value="`)
	b.WriteString(html.EscapeString(valueString(field.Value)))
	b.WriteString(`"`)
	writeAttr(b, "data-budget-min", field.Metadata["budget.min"])
	b.WriteString(" />\n  </div>\n")
}

func (r fieldRenderer) renderSelect(b *strings.Builder, field model.Field) {
	b.WriteString(`  <div class="`)
	b.WriteString(r.chrome.element(ElementSelectWrapper))
	b.WriteString("\">\n")
	b.WriteString(`    <select`)
	r.writeCommonAttrs(b, field, false)
	writeAttr(b, "class", r.chrome.element(ElementSelect))
	b.WriteString(">\n")
	for _, opt := range field.Options {
		b.WriteString(`      <option value="`)
		b.WriteString(html.EscapeString(valueString(opt.Value)))
		b.WriteString(`"`)
		if opt.Selected {
			b.WriteString(` selected`)
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString("</option>\n")
	}
	b.WriteString("    </select>\n  </div>\n")
}

func (r fieldRenderer) renderError(b *strings.Builder, field model.Field) {
	if !field.HasError() {
		return
	}
	b.WriteString(`  <span class="`)
	b.WriteString(r.chrome.element(ElementError))
	b.WriteString(`" role="alert"`)
	writeAttr(b, "data-testid", field.Name+"-error")
	b.WriteString(">")
	b.WriteString(html.EscapeString(field.Error))
	b.WriteString("</span>\n")
}

func (r fieldRenderer) writeCommonAttrs(b *strings.Builder, field model.Field, ariaLabel bool) {
	writeAttr(b, "id", controlID(field.Name))
	writeAttr(b, "name", field.Name)
	writeAttr(b, "data-field", field.Name)
	writeAttr(b, "data-testid", field.TestID)
	if ariaLabel {
		writeAttr(b, "aria-label", field.Label)
	}
	if field.HasError() {
		b.WriteString(` aria-invalid="true"`)
	}
}

// writeAttr writes ` name="value"` when value is non-empty.
func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "lf-" + trimmed
}

func valueString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
