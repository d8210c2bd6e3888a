// Package config defines the configuration structure for the nudge
// dispatcher. Configuration is loaded once at process initialization and is
// immutable thereafter, following 12-Factor principles: values come from the
// OS environment, optionally seeded from a .env file for local development.
//
// Any missing required value or invalid format causes startup to fail fast.
package config

import (
	"time"

	"nudge/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used for vendor credentials to prevent accidental logging.
type SecretString = types.SecretString

// Config is the top-level configuration struct. Sub-components receive only
// the specific subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Server   ServerConfig
	Mongo    MongoConfig
	Email    EmailConfig
	WhatsApp WhatsAppConfig
	Sites    SiteConfig
	Dispatch DispatchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"3000"`
}

// MongoConfig holds the connection strings for the two backing order
// collections. Each pipeline run opens and closes its own client against
// the URI for its product line; no connection is shared across runs.
type MongoConfig struct {
	ThirtyDCURI SecretString `envconfig:"MONGODB_URI" validate:"required"`
	SkillsetURI SecretString `envconfig:"MONGODB_URI_SKILLSET" validate:"required"`
	Collection  string       `envconfig:"MONGODB_COLLECTION" default:"orders"`

	ConnectTimeout time.Duration `envconfig:"MONGODB_CONNECT_TIMEOUT" default:"10s"`
}

// EmailConfig holds the Resend credential and per-line sender addresses.
type EmailConfig struct {
	ResendAPIKey SecretString `envconfig:"RESEND_API_KEY" validate:"required"`
	FromThirtyDC string       `envconfig:"FROM_EMAIL" validate:"required,email"`
	FromSkillset string       `envconfig:"FROM_EMAIL_SKILLSET" validate:"required,email"`
	// BaseURL override for testing; empty means the production API.
	BaseURL string `envconfig:"RESEND_BASE_URL"`
}

// WhatsAppConfig holds the Interakt credential and template settings.
type WhatsAppConfig struct {
	InteraktAPIKey SecretString `envconfig:"INTERAKT_API_KEY" validate:"required"`
	TemplateName   string       `envconfig:"INTERAKT_TEMPLATE_NAME" default:"30dc_notification_di"`
	LanguageCode   string       `envconfig:"INTERAKT_LANGUAGE_CODE" default:"en"`
	CountryCode    string       `envconfig:"INTERAKT_COUNTRY_CODE" default:"+91"`
	// BaseURL override for testing; empty means the production API.
	BaseURL string `envconfig:"INTERAKT_BASE_URL"`
}

// SiteConfig holds the public checkout base URL per product line (no
// trailing slash). Used for WhatsApp button fallback URLs.
type SiteConfig struct {
	ThirtyDCURL string `envconfig:"SITE_URL" validate:"required,url"`
	SkillsetURL string `envconfig:"SKILLSET_URL" validate:"required,url"`
}

// DispatchConfig holds the batching and retry tunables. The defaults mirror
// the vendor rate limits: Resend caps batches at 100, and both vendors
// tolerate one request in flight with 5 seconds between batches.
type DispatchConfig struct {
	BatchSize       int           `envconfig:"DISPATCH_BATCH_SIZE" default:"100" validate:"min=1"`
	MaxAttempts     int           `envconfig:"DISPATCH_MAX_ATTEMPTS" default:"3" validate:"min=1"`
	RetryDelay      time.Duration `envconfig:"DISPATCH_RETRY_DELAY" default:"1s"`
	BatchDelay      time.Duration `envconfig:"DISPATCH_BATCH_DELAY" default:"5s"`
	MessagingMinAge time.Duration `envconfig:"DISPATCH_MESSAGING_MIN_AGE" default:"10m"`
}

// ConfigErrorType categorizes configuration loading failures to aid
// debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable
	// values into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
