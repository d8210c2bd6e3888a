package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nudge/internal/catalog"
	"nudge/internal/channels/email"
	"nudge/internal/channels/whatsapp"
	"nudge/internal/config"
	"nudge/internal/content"
	"nudge/internal/dispatch"
	"nudge/internal/external"
	"nudge/internal/store"
	"nudge/internal/types"
)

// Service wires the configured product lines, vendor clients, and
// dispatcher into named pipeline runs, one per trigger endpoint. It is
// built once at startup and is safe for concurrent triggers: runs share no
// mutable state beyond the vendor circuit breakers.
type Service struct {
	cfg    *config.Config
	log    *slog.Logger
	runner *Runner

	thirtyDC *catalog.ProductLine
	skillset *catalog.ProductLine

	emailProvider     external.EmailProvider
	messagingProvider external.MessagingProvider
	renderer          content.Renderer
}

// NewService builds the pipeline service from configuration.
func NewService(cfg *config.Config, log *slog.Logger) *Service {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	retryer := dispatch.NewRetryer(cfg.Dispatch.MaxAttempts, cfg.Dispatch.RetryDelay, log)
	dispatcher := dispatch.NewDispatcher(cfg.Dispatch.BatchSize, cfg.Dispatch.BatchDelay, retryer, log)

	return &Service{
		cfg:      cfg,
		log:      log,
		runner:   NewRunner(dispatcher, log),
		thirtyDC: catalog.ThirtyDC(cfg.Email.FromThirtyDC, cfg.Sites.ThirtyDCURL),
		skillset: catalog.Skillset(cfg.Email.FromSkillset, cfg.Sites.SkillsetURL),
		emailProvider: external.NewResendClient(httpClient, cfg.Email.ResendAPIKey,
			external.WithResendBaseURL(cfg.Email.BaseURL)),
		messagingProvider: external.NewInteraktClient(httpClient, cfg.WhatsApp.InteraktAPIKey,
			external.WithInteraktBaseURL(cfg.WhatsApp.BaseURL)),
		renderer: content.NewTemplateRenderer(),
	}
}

// SendEmails30DC runs the 30 Days Coding email pipeline once.
func (s *Service) SendEmails30DC(ctx context.Context) (*RunReport, error) {
	ch := email.NewChannel(s.thirtyDC, s.emailProvider, s.renderer, s.log)
	return s.runner.Run(ctx, s.thirtyDC, s.opener(s.cfg.Mongo.ThirtyDCURI), ch, EmailKey, 0)
}

// SendEmailsSkillset runs the SkillSet Master email pipeline once.
func (s *Service) SendEmailsSkillset(ctx context.Context) (*RunReport, error) {
	ch := email.NewChannel(s.skillset, s.emailProvider, s.renderer, s.log)
	return s.runner.Run(ctx, s.skillset, s.opener(s.cfg.Mongo.SkillsetURI), ch, EmailKey, 0)
}

// SendWhatsApp30DC runs the 30 Days Coding WhatsApp pipeline once. Unlike
// email, messaging applies the minimum-age gate so customers mid-checkout
// are not pinged within minutes of starting.
func (s *Service) SendWhatsApp30DC(ctx context.Context) (*RunReport, error) {
	ch := whatsapp.NewChannel(s.thirtyDC, s.messagingProvider, whatsapp.Config{
		TemplateName: s.cfg.WhatsApp.TemplateName,
		LanguageCode: s.cfg.WhatsApp.LanguageCode,
		CountryCode:  s.cfg.WhatsApp.CountryCode,
	}, s.log)
	return s.runner.Run(ctx, s.thirtyDC, s.opener(s.cfg.Mongo.ThirtyDCURI), ch, PhoneKey, s.cfg.Dispatch.MessagingMinAge)
}

// SendAll30DC runs the 30 Days Coding email pipeline, then the WhatsApp
// pipeline, sequentially. The email run's reports are returned even when
// the WhatsApp run fails; the first error wins.
func (s *Service) SendAll30DC(ctx context.Context) ([]*RunReport, error) {
	emailReport, err := s.SendEmails30DC(ctx)
	if err != nil {
		return nil, err
	}
	waReport, err := s.SendWhatsApp30DC(ctx)
	if err != nil {
		return []*RunReport{emailReport}, err
	}
	return []*RunReport{emailReport, waReport}, nil
}

// opener builds a SourceOpener scoped to one connection string. The store
// handle it yields lives exactly as long as the run that requested it.
func (s *Service) opener(uri types.SecretString) SourceOpener {
	return func(ctx context.Context) (store.RecordSource, func(context.Context) error, error) {
		st, err := store.Connect(ctx, store.Config{
			URI:            uri.Unmask(),
			Collection:     s.cfg.Mongo.Collection,
			ConnectTimeout: s.cfg.Mongo.ConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
}
