package dispatch

import (
	"context"
	"log/slog"
	"time"

	"nudge/internal/types"
)

// Dispatcher drains deduplicated recipients through a channel in fixed-size
// batches. Sends within a batch are strictly sequential: each recipient's
// call is fully awaited, retries and all, before the next begins. A pacing
// delay separates consecutive batches; there is none after the last.
type Dispatcher struct {
	batchSize  int
	batchDelay time.Duration
	retryer    *Retryer
	log        *slog.Logger
	sleep      func(time.Duration)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithBatchSleepFunc overrides the inter-batch pacing sleep for tests.
func WithBatchSleepFunc(fn func(time.Duration)) DispatcherOption {
	return func(d *Dispatcher) {
		d.sleep = fn
	}
}

// NewDispatcher builds a Dispatcher. batchSize below 1 is clamped to 1.
func NewDispatcher(batchSize int, batchDelay time.Duration, retryer *Retryer, log *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if batchSize < 1 {
		batchSize = 1
	}
	d := &Dispatcher{
		batchSize:  batchSize,
		batchDelay: batchDelay,
		retryer:    retryer,
		log:        log,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run dispatches every recipient through the channel and aggregates
// per-recipient outcomes. A recipient's failure is recorded and the batch
// moves on; nothing short of process death stops the run. There is no
// global timeout and no resume tracking for partially completed runs.
func (d *Dispatcher) Run(ctx context.Context, recipients []types.Record, ch Channel) *Result {
	result := &Result{}
	total := len(recipients)
	if total == 0 {
		return result
	}

	batches := (total + d.batchSize - 1) / d.batchSize
	d.log.Info("starting dispatch",
		"channel", ch.Name(),
		"recipients", total,
		"batch_size", d.batchSize,
		"batches", batches)

	for start := 0; start < total; start += d.batchSize {
		end := start + d.batchSize
		if end > total {
			end = total
		}
		batchNum := start/d.batchSize + 1

		for i := start; i < end; i++ {
			rec := recipients[i]
			d.send(ctx, &rec, ch, result)
		}

		sent, failed, skipped := result.Counts()
		d.log.Info("batch complete",
			"channel", ch.Name(),
			"batch", batchNum,
			"batches", batches,
			"sent", sent,
			"failed", failed,
			"skipped", skipped)

		if end < total {
			d.sleep(d.batchDelay)
		}
	}

	return result
}

func (d *Dispatcher) send(ctx context.Context, rec *types.Record, ch Channel, result *Result) {
	var outcome *SendOutcome
	err := d.retryer.Do(ctx, func(ctx context.Context) error {
		o, err := ch.Send(ctx, rec)
		if err != nil {
			return err
		}
		outcome = o
		return nil
	})

	recipient := rec.Email()
	if outcome != nil && outcome.Recipient != "" {
		recipient = outcome.Recipient
	}

	switch {
	case err != nil:
		d.log.Error("send failed after retries",
			"channel", ch.Name(),
			"recipient", recipient,
			"error", err)
		result.Failed = append(result.Failed, Failure{
			Recipient: recipient,
			Error:     err.Error(),
		})
	case outcome.Status == StatusSkipped:
		d.log.Info("recipient skipped",
			"channel", ch.Name(),
			"recipient", recipient,
			"reason", outcome.SkipReason)
		result.Skipped = append(result.Skipped, Skip{
			Recipient: recipient,
			Reason:    outcome.SkipReason,
		})
	default:
		result.Successful = append(result.Successful, Delivery{
			Recipient:         recipient,
			ProviderMessageID: outcome.ProviderMessageID,
		})
	}
}
