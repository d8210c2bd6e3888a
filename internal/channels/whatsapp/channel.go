// Package whatsapp adapts the messaging provider to the dispatch channel
// contract. Records without a usable phone number are reported as skipped
// outcomes before any network call; they are never retried.
package whatsapp

import (
	"context"
	"log/slog"

	"nudge/internal/catalog"
	"nudge/internal/dispatch"
	"nudge/internal/external"
	"nudge/internal/types"
)

// Config holds the template settings shared by every send on the channel.
type Config struct {
	TemplateName string
	LanguageCode string
	CountryCode  string
}

// Channel sends WhatsApp template messages for one product line.
type Channel struct {
	line     *catalog.ProductLine
	provider external.MessagingProvider
	cfg      Config
	log      *slog.Logger
}

// NewChannel builds a WhatsApp channel for a product line.
func NewChannel(line *catalog.ProductLine, provider external.MessagingProvider, cfg Config, log *slog.Logger) *Channel {
	return &Channel{
		line:     line,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

// Name identifies the channel in logs and run reports.
func (c *Channel) Name() string {
	return "whatsapp:" + c.line.ID
}

// Send normalizes the record's phone number and delivers one template
// message. An absent phone skips with no_phone_number; a phone that does
// not reduce to 10 digits skips with invalid_phone_number. Skips are
// outcomes, not errors, so the retry executor never re-attempts them.
func (c *Channel) Send(ctx context.Context, rec *types.Record) (*dispatch.SendOutcome, error) {
	raw := rec.CustomerDetails.Phone
	if raw == nil {
		return &dispatch.SendOutcome{
			Status:     dispatch.StatusSkipped,
			Recipient:  rec.Email(),
			SkipReason: dispatch.SkipNoPhone,
		}, nil
	}

	phone, ok := types.NormalizePhone(raw)
	if !ok {
		return &dispatch.SendOutcome{
			Status:     dispatch.StatusSkipped,
			Recipient:  rec.Email(),
			SkipReason: dispatch.SkipInvalidPhone,
		}, nil
	}

	slug := c.line.CourseSlug(rec)

	id, err := c.provider.SendTemplate(ctx, external.TemplateMessage{
		CountryCode: c.cfg.CountryCode,
		PhoneNumber: phone,
		Template: external.WhatsAppTemplate{
			Name:         c.cfg.TemplateName,
			LanguageCode: c.cfg.LanguageCode,
			BodyValues:   []string{rec.CustomerDetails.Name, c.line.DisplayName(slug)},
			ButtonValues: map[string][]string{
				"1": {c.line.ButtonURL(rec)},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug("whatsapp sent", "phone", phone, "course", slug, "message_id", id)

	return &dispatch.SendOutcome{
		Status:            dispatch.StatusSent,
		Recipient:         phone,
		ProviderMessageID: id,
	}, nil
}

// Compile-time assertion that Channel implements dispatch.Channel.
var _ dispatch.Channel = (*Channel)(nil)
