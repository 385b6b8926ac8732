package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalambet/deskhub/internal/collection"
	"github.com/kalambet/deskhub/internal/storage"
)

// ErrUnknownScript is returned when no script has the requested id.
var ErrUnknownScript = errors.New("unknown script")

// DefaultDelay is the pause before a script's result is reported.
const DefaultDelay = 1500 * time.Millisecond

// RunLog records script executions.
// Implemented by storage.Store.
type RunLog interface {
	RecordScriptRun(run storage.ScriptRun) error
	LastScriptRun(scriptID string) (storage.ScriptRun, error)
}

// Result is what a run reports back to the invoker.
type Result struct {
	ScriptID string
	Success  bool
	Message  string
	// Detail summarises what the script changed. Empty on failure.
	Detail string
}

// Status pairs a script with its most recent run, if any.
type Status struct {
	Script  Script
	LastRun *storage.ScriptRun
}

// Runner executes scripts from a fixed registry.
type Runner struct {
	scripts []Script
	log     RunLog
	ids     collection.IDProvider
	clock   collection.Clock
	delay   time.Duration
	logger  *slog.Logger
}

// NewRunner creates a Runner. A negative delay is treated as zero.
func NewRunner(scripts []Script, log RunLog, ids collection.IDProvider, clock collection.Clock, delay time.Duration) *Runner {
	if delay < 0 {
		delay = 0
	}
	return &Runner{
		scripts: scripts,
		log:     log,
		ids:     ids,
		clock:   clock,
		delay:   delay,
		logger:  slog.Default(),
	}
}

// Scripts returns every registered script with its last run.
func (r *Runner) Scripts() ([]Status, error) {
	out := make([]Status, 0, len(r.scripts))
	for _, s := range r.scripts {
		st := Status{Script: s}
		last, err := r.log.LastScriptRun(s.ID)
		switch {
		case err == nil:
			st.LastRun = &last
		case errors.Is(err, storage.ErrNotFound):
		default:
			return nil, fmt.Errorf("loading last run of %s: %w", s.ID, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// Lookup returns the script with id.
func (r *Runner) Lookup(id string) (Script, error) {
	for _, s := range r.scripts {
		if s.ID == id {
			return s, nil
		}
	}
	return Script{}, fmt.Errorf("%w: %q", ErrUnknownScript, id)
}

// Run waits out the delay, executes script id and records the outcome. A
// failing action is reported in the Result, not as an error. Cancelling ctx
// during the delay aborts the run before anything is changed.
func (r *Runner) Run(ctx context.Context, id string) (Result, error) {
	s, err := r.Lookup(id)
	if err != nil {
		return Result{}, err
	}

	started := r.clock.Now()
	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	res := Result{ScriptID: s.ID}
	detail, err := s.Action(ctx)
	if err != nil {
		res.Message = fmt.Sprintf("%s failed: %v", s.Name, err)
		r.logger.Warn("script failed", "script", s.ID, "error", err)
	} else {
		res.Success = true
		res.Message = s.Name + " completed successfully"
		res.Detail = detail
		r.logger.Debug("script completed", "script", s.ID, "detail", detail)
	}

	run := storage.ScriptRun{
		ID:         r.ids.NewID(),
		ScriptID:   s.ID,
		Success:    res.Success,
		Message:    res.Message,
		StartedAt:  started,
		FinishedAt: r.clock.Now(),
	}
	if err := r.log.RecordScriptRun(run); err != nil {
		r.logger.Warn("recording script run", "script", s.ID, "error", err)
	}
	return res, nil
}
