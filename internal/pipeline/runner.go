package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nudge/internal/catalog"
	"nudge/internal/dispatch"
	"nudge/internal/store"
)

// SourceOpener acquires a record source for one run and returns the release
// function alongside it. Each run owns its own connection lifecycle: the
// runner releases in a deferred cleanup, so a failed run for one product
// line can never leave another line's connection in a broken state.
type SourceOpener func(ctx context.Context) (store.RecordSource, func(context.Context) error, error)

// RunReport summarizes one pipeline run.
type RunReport struct {
	RunID    string           `json:"runId"`
	Line     string           `json:"line"`
	Channel  string           `json:"channel"`
	Fetched  int              `json:"fetched"`
	Eligible int              `json:"eligible"`
	Unique   int              `json:"unique"`
	Result   *dispatch.Result `json:"result"`
}

// Runner executes pipeline runs. It holds no per-run state; runs invoked
// from different goroutines share nothing but the dispatcher's pacing
// configuration.
type Runner struct {
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
	now        func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithNowFunc overrides the clock used by the age gate. Tests pin it.
func WithNowFunc(fn func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = fn
	}
}

// NewRunner builds a Runner over the given dispatcher.
func NewRunner(dispatcher *dispatch.Dispatcher, log *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one full pipeline pass: acquire the source, fetch all
// records, filter, dedupe, dispatch, release. Connection-level failures
// abort the run and propagate; everything downstream of a successful fetch
// degrades into the report's per-recipient outcome lists instead of
// erroring.
func (r *Runner) Run(
	ctx context.Context,
	line *catalog.ProductLine,
	open SourceOpener,
	ch dispatch.Channel,
	key KeyFunc,
	minAge time.Duration,
) (*RunReport, error) {
	runID := uuid.NewString()
	log := r.log.With("run_id", runID, "line", line.ID, "channel", ch.Name())

	log.Info("pipeline run starting")

	src, release, err := open(ctx)
	if err != nil {
		log.Error("failed to acquire record source", "error", err)
		return nil, err
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			log.Warn("failed to release record source", "error", err)
		}
	}()

	records, err := src.FetchAll(ctx)
	if err != nil {
		log.Error("failed to fetch records", "error", err)
		return nil, err
	}

	eligible := Filter(records, line, minAge, r.now())
	unique := Dedupe(eligible, key)

	log.Info("records selected",
		"fetched", len(records),
		"eligible", len(eligible),
		"unique", len(unique))

	result := r.dispatcher.Run(ctx, unique, ch)

	sent, failed, skipped := result.Counts()
	log.Info("pipeline run complete",
		"sent", sent,
		"failed", failed,
		"skipped", skipped)

	return &RunReport{
		RunID:    runID,
		Line:     line.ID,
		Channel:  ch.Name(),
		Fetched:  len(records),
		Eligible: len(eligible),
		Unique:   len(unique),
		Result:   result,
	}, nil
}
