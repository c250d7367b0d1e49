package command

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	gocommand "github.com/goliatone/go-command"
)

// ClickTrackerConfig wires the fire-and-forget click recorder.
type ClickTrackerConfig struct {
	Command gocommand.Commander[ClickRecordInput]
	Logger  types.Logger
	Metrics metrics.Recorder
	Timeout time.Duration
}

type inFlightGauge interface {
	TrackerInFlight(delta float64)
}

// ClickTracker runs click recordings in the background so navigation never
// waits on the store.
type ClickTracker struct {
	cmd     gocommand.Commander[ClickRecordInput]
	logger  types.Logger
	gauge   inFlightGauge
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewClickTracker constructs a tracker around the supplied command.
func NewClickTracker(cfg ClickTrackerConfig) (*ClickTracker, error) {
	if cfg.Command == nil {
		return nil, ErrClickCommandRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultClickTimeout
	}
	gauge, _ := cfg.Metrics.(inFlightGauge)
	return &ClickTracker{
		cmd:     cfg.Command,
		logger:  safeLogger(cfg.Logger),
		gauge:   gauge,
		timeout: timeout,
	}, nil
}

// Track starts recording input and returns immediately. The recording keeps
// the request values of ctx but not its cancellation. Clicks tracked after
// Wait has been called are dropped.
func (t *ClickTracker) Track(ctx context.Context, input ClickRecordInput) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		t.logger.Debug("click tracker closed, dropping click", "profile_id", input.ProfileID.String())
		return
	}
	t.wg.Add(1)
	t.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	t.moveGauge(1)
	go func() {
		defer t.wg.Done()
		defer t.moveGauge(-1)

		ctx, cancel := context.WithTimeout(detached, t.timeout)
		defer cancel()
		if err := t.cmd.Execute(ctx, input); err != nil && !errors.Is(err, ErrClickTrackingDisabled) {
			t.logger.Error("background click recording failed", err, "profile_id", input.ProfileID.String())
		}
	}()
}

// Wait stops accepting clicks and blocks until in-flight recordings finish
// or ctx is done.
func (t *ClickTracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *ClickTracker) moveGauge(delta float64) {
	if t.gauge != nil {
		t.gauge.TrackerInFlight(delta)
	}
}
