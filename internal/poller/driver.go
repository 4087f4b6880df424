// Package poller runs the fixed-rate sample loop that feeds the series
// window from the backend.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/tinytelemetry/ftscope/internal/model"
	"github.com/tinytelemetry/ftscope/internal/series"
	"github.com/tinytelemetry/ftscope/internal/session"

	"go.uber.org/zap"
)

// Result describes the outcome of one fetch.
type Result struct {
	Sample  model.Sample
	Range   series.Range
	Counter int64
	Err     error
}

// Driver polls a SampleSource while the session is running and appends
// every successful sample to the window. At most one request is
// outstanding at a time.
type Driver struct {
	source   model.SampleSource
	state    *session.State
	window   *series.Window
	logger   *zap.Logger
	interval time.Duration
	timeout  time.Duration
	observe  func(Result)
}

// Option configures a Driver.
type Option func(*Driver)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}

// WithRequestTimeout bounds each fetch. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(dr *Driver) {
		dr.timeout = d
	}
}

// WithObserver registers a callback invoked after every completed fetch
// started by Run.
func WithObserver(fn func(Result)) Option {
	return func(dr *Driver) {
		dr.observe = fn
	}
}

// New creates a driver over the given collaborators.
func New(source model.SampleSource, state *session.State, window *series.Window, logger *zap.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{
		source:   source,
		state:    state,
		window:   window,
		logger:   logger,
		interval: model.DefaultPollInterval,
		timeout:  model.DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Interval returns the tick period.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Begin claims the fetch slot for one tick. ok is false when polling is
// stopped or a fetch is still outstanding; the tick is then a no-op.
func (d *Driver) Begin() (write bool, ok bool) {
	return d.state.TryBeginFetch()
}

// Fetch performs the request claimed by Begin, accepts the sample on
// success and releases the slot.
func (d *Driver) Fetch(ctx context.Context, write bool) Result {
	defer d.state.EndFetch()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	sample, err := d.source.ReadSamples(ctx, write)
	if err != nil {
		d.logger.Warn("[poller] fetch failed", zap.Error(err), zap.Bool("write", write))
		return Result{Err: err, Range: d.window.Range(), Counter: d.window.Counter()}
	}

	rng := d.window.Accept(sample)
	return Result{Sample: sample, Range: rng, Counter: rng.Hi}
}

// Step runs one synchronous tick. ok is false when the tick was skipped.
func (d *Driver) Step(ctx context.Context) (Result, bool) {
	write, ok := d.Begin()
	if !ok {
		return Result{}, false
	}
	return d.Fetch(ctx, write), true
}

// Run ticks until ctx is done. Each tick fires independently of the
// previous fetch; a tick that finds the slot taken is skipped.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	d.logger.Info("[poller] started", zap.Duration("interval", d.interval), zap.Duration("timeout", d.timeout))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("[poller] stopped", zap.Int64("samples", d.window.Counter()))
			return nil
		case <-ticker.C:
			write, ok := d.Begin()
			if !ok {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				res := d.Fetch(ctx, write)
				if d.observe != nil {
					d.observe(res)
				}
			}()
		}
	}
}
