// Package dispatch implements the batched, retried fan-out over a
// notification channel: recipients are partitioned into fixed-size chunks,
// each recipient is sent sequentially through a bounded-retry executor, and
// a pacing delay separates consecutive chunks so the vendor API never sees
// more than one in-flight request from this process.
package dispatch

import (
	"context"

	"nudge/internal/types"
)

// DeliveryStatus classifies the outcome of one recipient's send.
type DeliveryStatus string

const (
	// StatusSent means the channel call returned without error, possibly
	// after retries.
	StatusSent DeliveryStatus = "sent"
	// StatusFailed means the channel call exhausted all retry attempts.
	StatusFailed DeliveryStatus = "failed"
	// StatusSkipped means the recipient was filtered out before any network
	// call was attempted.
	StatusSkipped DeliveryStatus = "skipped"
)

// Skip reason codes reported by channels for pre-network rejections.
const (
	SkipNoPhone      = "no_phone_number"
	SkipInvalidPhone = "invalid_phone_number"
)

// SendOutcome is what a channel reports for one recipient. A skipped
// recipient is an outcome, not an error: errors are reserved for calls that
// should be retried.
type SendOutcome struct {
	Status            DeliveryStatus
	Recipient         string
	ProviderMessageID string
	// SkipReason is set only when Status is StatusSkipped.
	SkipReason string
}

// Channel is one outbound notification medium. Send either returns an
// outcome (sent or skipped) or an error; an error is treated as retryable
// by the dispatcher.
type Channel interface {
	// Name identifies the channel in logs and run reports.
	Name() string
	Send(ctx context.Context, rec *types.Record) (*SendOutcome, error)
}

// Delivery records one successful send.
type Delivery struct {
	Recipient         string `json:"recipient"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`
}

// Failure records one recipient whose send exhausted all retries.
type Failure struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

// Skip records one recipient rejected before any network attempt.
type Skip struct {
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
}

// Result aggregates per-recipient outcomes across a whole dispatch run.
type Result struct {
	Successful []Delivery `json:"successful"`
	Failed     []Failure  `json:"failed"`
	Skipped    []Skip     `json:"skipped"`
}

// Counts returns the outcome tallies in sent/failed/skipped order.
func (r *Result) Counts() (sent, failed, skipped int) {
	return len(r.Successful), len(r.Failed), len(r.Skipped)
}
