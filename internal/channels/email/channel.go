// Package email adapts the email provider to the dispatch channel contract.
// The channel resolves course type and pricing for one record, renders the
// message body, and hands the assembled send to the provider.
package email

import (
	"context"
	"log/slog"

	"nudge/internal/catalog"
	"nudge/internal/content"
	"nudge/internal/dispatch"
	"nudge/internal/external"
	"nudge/internal/pricing"
	"nudge/internal/types"
)

// Channel sends promotional emails for one product line.
type Channel struct {
	line     *catalog.ProductLine
	provider external.EmailProvider
	renderer content.Renderer
	log      *slog.Logger
}

// NewChannel builds an email channel for a product line.
func NewChannel(line *catalog.ProductLine, provider external.EmailProvider, renderer content.Renderer, log *slog.Logger) *Channel {
	return &Channel{
		line:     line,
		provider: provider,
		renderer: renderer,
		log:      log,
	}
}

// Name identifies the channel in logs and run reports.
func (c *Channel) Name() string {
	return "email:" + c.line.ID
}

// Send renders and delivers one email. A missing email address is a hard
// error: records without one should never reach this channel, since the
// deduplication key for email dispatch is the address itself.
func (c *Channel) Send(ctx context.Context, rec *types.Record) (*dispatch.SendOutcome, error) {
	to := rec.Email()
	if to == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingEmail, "record has no email address", nil)
	}

	slug := c.line.CourseSlug(rec)
	price := pricing.Resolve(rec.Amount, c.line.Multiplier(slug))

	html, err := c.renderer.RenderEmail(content.EmailData{
		Name:        rec.CustomerDetails.Name,
		ProductName: c.line.DisplayName(slug),
		CourseSlug:  slug,
		CheckoutURL: c.line.ButtonURL(rec),
		Price:       price,
	})
	if err != nil {
		return nil, err
	}

	id, err := c.provider.Send(ctx, external.SendEmailInput{
		From:    c.line.From,
		To:      []string{to},
		Subject: c.line.Subject(slug),
		HTML:    html,
		Tags: []external.Tag{
			{Name: "course_type", Value: sanitizeTag(slug)},
			{Name: "utm_source", Value: sanitizeTag(rec.UTMSource())},
		},
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug("email sent", "to", to, "course", slug, "message_id", id)

	return &dispatch.SendOutcome{
		Status:            dispatch.StatusSent,
		Recipient:         to,
		ProviderMessageID: id,
	}, nil
}

// sanitizeTag rewrites a tag value into the provider's allowed alphabet
// (ASCII letters, digits, underscores, dashes).
func sanitizeTag(v string) string {
	out := []byte(v)
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// Compile-time assertion that Channel implements dispatch.Channel.
var _ dispatch.Channel = (*Channel)(nil)
