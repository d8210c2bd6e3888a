package whatsapp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nudge/internal/catalog"
	"nudge/internal/dispatch"
	"nudge/internal/external"
	"nudge/internal/types"
)

type fakeMessagingProvider struct {
	msg    external.TemplateMessage
	called bool
	id     string
	err    error
}

func (f *fakeMessagingProvider) SendTemplate(_ context.Context, msg external.TemplateMessage) (string, error) {
	f.called = true
	f.msg = msg
	return f.id, f.err
}

func newTestChannel(provider *fakeMessagingProvider) *Channel {
	line := catalog.ThirtyDC("team@example.com", "https://example.com")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChannel(line, provider, Config{
		TemplateName: "30dc_notification_di",
		LanguageCode: "en",
		CountryCode:  "+91",
	}, log)
}

func TestSendAssemblesTemplateMessage(t *testing.T) {
	provider := &fakeMessagingProvider{id: "wa_1"}
	ch := newTestChannel(provider)

	rec := types.Record{
		Status:     "created",
		CourseType: "advanced",
		SourceURL:  "https://example.com/advanced",
		CustomerDetails: types.CustomerDetails{
			Name:  "Asha",
			Email: "asha@example.com",
			Phone: "+919876543210",
		},
	}

	outcome, err := ch.Send(context.Background(), &rec)

	require.NoError(t, err)
	assert.Equal(t, dispatch.StatusSent, outcome.Status)
	assert.Equal(t, "9876543210", outcome.Recipient)
	assert.Equal(t, "wa_1", outcome.ProviderMessageID)

	assert.Equal(t, "+91", provider.msg.CountryCode)
	assert.Equal(t, "9876543210", provider.msg.PhoneNumber)
	assert.Equal(t, "30dc_notification_di", provider.msg.Template.Name)
	assert.Equal(t, "en", provider.msg.Template.LanguageCode)
	assert.Equal(t, []string{"Asha", "30 Days Coding - Advanced"}, provider.msg.Template.BodyValues)
	assert.Equal(t, []string{"https://example.com/advanced"}, provider.msg.Template.ButtonValues["1"])
}

func TestSendSkipsAbsentPhone(t *testing.T) {
	provider := &fakeMessagingProvider{}
	ch := newTestChannel(provider)

	rec := types.Record{
		Status:          "created",
		CourseType:      "beginner",
		CustomerDetails: types.CustomerDetails{Email: "asha@example.com"},
	}

	outcome, err := ch.Send(context.Background(), &rec)

	require.NoError(t, err)
	assert.Equal(t, dispatch.StatusSkipped, outcome.Status)
	assert.Equal(t, dispatch.SkipNoPhone, outcome.SkipReason)
	assert.False(t, provider.called, "skip must happen before any network call")
}

func TestSendSkipsInvalidPhone(t *testing.T) {
	provider := &fakeMessagingProvider{}
	ch := newTestChannel(provider)

	rec := types.Record{
		Status:     "created",
		CourseType: "beginner",
		CustomerDetails: types.CustomerDetails{
			Email: "asha@example.com",
			Phone: "12345",
		},
	}

	outcome, err := ch.Send(context.Background(), &rec)

	require.NoError(t, err)
	assert.Equal(t, dispatch.StatusSkipped, outcome.Status)
	assert.Equal(t, dispatch.SkipInvalidPhone, outcome.SkipReason)
	assert.False(t, provider.called)
}

func TestSendFallsBackToSiteURLButton(t *testing.T) {
	provider := &fakeMessagingProvider{id: "wa_2"}
	ch := newTestChannel(provider)

	rec := types.Record{
		Status:     "created",
		CourseType: "beginner",
		CustomerDetails: types.CustomerDetails{
			Phone: "9876543210",
		},
	}

	_, err := ch.Send(context.Background(), &rec)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/checkout?course=beginner"}, provider.msg.Template.ButtonValues["1"])
}

func TestSendPropagatesProviderError(t *testing.T) {
	provider := &fakeMessagingProvider{err: errors.New("template rejected")}
	ch := newTestChannel(provider)

	rec := types.Record{
		Status:     "created",
		CourseType: "beginner",
		CustomerDetails: types.CustomerDetails{
			Phone: "9876543210",
		},
	}

	outcome, err := ch.Send(context.Background(), &rec)

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Contains(t, err.Error(), "template rejected")
}
