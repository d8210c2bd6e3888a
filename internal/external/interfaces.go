package external

import "context"

// Tag is a name/value pair attached to an outbound email for downstream
// analytics. Tags never influence dispatch behavior.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SendEmailInput is the provider-neutral email send request.
type SendEmailInput struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Tags    []Tag
}

// EmailProvider sends one email and returns the provider's message ID.
type EmailProvider interface {
	Send(ctx context.Context, input SendEmailInput) (string, error)
}

// WhatsAppTemplate identifies an approved message template and its
// substitution values.
type WhatsAppTemplate struct {
	Name         string              `json:"name"`
	LanguageCode string              `json:"languageCode"`
	BodyValues   []string            `json:"bodyValues"`
	ButtonValues map[string][]string `json:"buttonValues,omitempty"`
}

// TemplateMessage is one WhatsApp template send. PhoneNumber is the
// 10-digit national number; the country code travels separately.
type TemplateMessage struct {
	CountryCode  string
	PhoneNumber  string
	CallbackData string
	Template     WhatsAppTemplate
}

// MessagingProvider sends one WhatsApp template message and returns the
// provider's message ID.
type MessagingProvider interface {
	SendTemplate(ctx context.Context, msg TemplateMessage) (string, error)
}
