// Package content renders outbound message bodies. The dispatch pipeline
// treats rendering as an opaque pure function from recipient data to markup;
// the visual fidelity of the markup is out of scope and kept deliberately
// plain.
package content

import (
	"bytes"
	"fmt"
	"html/template"

	"nudge/internal/pricing"
)

// EmailData is the input to one email render.
type EmailData struct {
	Name        string
	ProductName string
	CourseSlug  string
	CheckoutURL string
	Price       pricing.Triple
}

// Renderer produces message markup from recipient data.
type Renderer interface {
	RenderEmail(data EmailData) (string, error)
}

const emailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 24px; background-color: #f4f4f5;">
  <div style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h2 style="margin-top: 0;">Hey {{.Name}}, your spot is still waiting!</h2>
    <p>You started registering for <strong>{{.ProductName}}</strong> but didn't finish checkout.</p>
    {{- if .Price.ReferencePrice }}
    <p style="font-size: 18px;">
      <span style="text-decoration: line-through; color: #71717a;">{{.Price.ReferencePrice}}</span>
      <strong style="margin-left: 8px;">{{.Price.Price}}</strong>
      <span style="color: #16a34a; margin-left: 8px;">You save {{.Price.Savings}}</span>
    </p>
    {{- else }}
    <p style="font-size: 18px;"><strong>{{.Price.Price}}</strong></p>
    {{- end }}
    <p>
      <a href="{{.CheckoutURL}}" style="display: inline-block; background: #2563eb; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Complete your registration</a>
    </p>
    <p style="color: #71717a; font-size: 13px;">If you already completed your purchase, you can ignore this email.</p>
  </div>
</body>
</html>`

// TemplateRenderer renders emails from a parsed html/template. It is safe
// for concurrent use; templates are parsed once at construction.
type TemplateRenderer struct {
	email *template.Template
}

// NewTemplateRenderer parses the built-in email template. The template is a
// compile-time constant, so a parse failure is a programming error and
// panics rather than returning.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{
		email: template.Must(template.New("email").Parse(emailTemplate)),
	}
}

// RenderEmail renders the promotional email body for one recipient.
func (r *TemplateRenderer) RenderEmail(data EmailData) (string, error) {
	if data.Name == "" {
		data.Name = "there"
	}
	var buf bytes.Buffer
	if err := r.email.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("content: render email: %w", err)
	}
	return buf.String(), nil
}

// Compile-time assertion that TemplateRenderer implements Renderer.
var _ Renderer = (*TemplateRenderer)(nil)
