package vanilla

import (
	"html"
	"strings"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Action kinds with dedicated markup. Any other kind with an Href renders as a
// plain link; without one it renders as a button.
const (
	ActionPrimary  = "primary"
	ActionWhatsApp = "whatsapp"
)

// renderActions writes the call-to-action area. Icon markup is emitted
// verbatim; uischema sanitises it when the form copy is loaded.
func (r fieldRenderer) renderActions(actions []model.Action) string {
	var b strings.Builder
	for _, action := range actions {
		switch action.Kind {
		case ActionPrimary:
			r.renderSubmit(&b, action)
		case ActionWhatsApp:
			r.renderWhatsApp(&b, action)
		default:
			r.renderGeneric(&b, action)
		}
	}
	return b.String()
}

func (r fieldRenderer) renderSubmit(b *strings.Builder, action model.Action) {
	kind := action.Type
	if kind == "" {
		kind = "submit"
	}
	b.WriteString(`<button`)
	writeAttr(b, "type", kind)
	writeAttr(b, "class", r.chrome.element(ElementSubmit))
	writeAttr(b, "data-testid", action.TestID)
	b.WriteString(">")
	b.WriteString(html.EscapeString(action.Label))
	b.WriteString("</button>\n")
}

func (r fieldRenderer) renderWhatsApp(b *strings.Builder, action model.Action) {
	b.WriteString(`<div class="`)
	b.WriteString(r.chrome.element(ElementWhatsAppCTA))
	b.WriteString("\">\n")
	if len(action.Lead) > 0 {
		b.WriteString(`  <p class="`)
		b.WriteString(r.chrome.element(ElementWhatsAppText))
		b.WriteString(`">`)
		for idx, line := range action.Lead {
			if idx > 0 {
				b.WriteString("<br />")
			}
			b.WriteString(html.EscapeString(line))
		}
		b.WriteString("</p>\n")
	}
	if action.Href != "" {
		b.WriteString(`  <a`)
		writeAttr(b, "href", action.Href)
		b.WriteString(` target="_blank" rel="noopener"`)
	} else {
		b.WriteString(`  <button type="button"`)
	}
	writeAttr(b, "class", r.chrome.element(ElementWhatsAppBtn))
	writeAttr(b, "data-testid", action.TestID)
	b.WriteString(">")
	b.WriteString(action.Icon)
	b.WriteString(html.EscapeString(action.Label))
	if action.Href != "" {
		b.WriteString("</a>\n")
	} else {
		b.WriteString("</button>\n")
	}
	b.WriteString("</div>\n")
}

func (r fieldRenderer) renderGeneric(b *strings.Builder, action model.Action) {
	if action.Href != "" {
		b.WriteString(`<a`)
		writeAttr(b, "href", action.Href)
		writeAttr(b, "class", r.chrome.element(ElementLink))
		writeAttr(b, "data-testid", action.TestID)
		b.WriteString(">")
		b.WriteString(action.Icon)
		b.WriteString(html.EscapeString(action.Label))
		b.WriteString("</a>\n")
		return
	}
	kind := action.Type
	if kind == "" {
		kind = "button"
	}
	b.WriteString(`<button`)
	writeAttr(b, "type", kind)
	writeAttr(b, "class", r.chrome.element(ElementLink))
	writeAttr(b, "data-testid", action.TestID)
	b.WriteString(">")
	b.WriteString(action.Icon)
	b.WriteString(html.EscapeString(action.Label))
	b.WriteString("</button>\n")
}
