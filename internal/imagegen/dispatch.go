package imagegen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"imagegw/internal/catalog"
	"imagegw/internal/domain"
	"imagegw/internal/infra"
)

// Observer receives one event per provider call.
type Observer interface {
	ObserveProviderCall(model string, elapsed time.Duration, err error)
}

// BatchError reports the batch position whose provider call failed. It
// matches domain.ErrProviderFailure.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string { return e.Err.Error() }

func (e *BatchError) Unwrap() []error { return []error{e.Err, domain.ErrProviderFailure} }

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// Concurrency bounds in-flight provider calls. 1 keeps calls sequential.
	Concurrency int
	// Timeout bounds a single provider call. Zero disables it.
	Timeout  time.Duration
	Logger   *infra.Logger
	Observer Observer
}

// Dispatcher fans one request out into n provider calls.
type Dispatcher struct {
	runner      Runner
	concurrency int
	timeout     time.Duration
	logger      *infra.Logger
	observer    Observer
}

func NewDispatcher(runner Runner, opts DispatcherOptions) *Dispatcher {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.DiscardLogger()
		logger = &l
	}
	return &Dispatcher{
		runner:      runner,
		concurrency: concurrency,
		timeout:     opts.Timeout,
		logger:      logger,
		observer:    opts.Observer,
	}
}

// Dispatch calls the provider n times with per-index seeds and returns the raw
// outputs indexed by batch position. The first failure cancels outstanding
// calls and no partial results are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, model catalog.Descriptor, params Parameters, n int) ([]any, error) {
	if d == nil || d.runner == nil {
		return nil, &BatchError{Err: errors.New("inference provider not configured")}
	}
	log := d.loggerFor(ctx).With().Str("model", model.ID).Logger()
	log.Info().Int("n", n).Msgf("Generating %d image(s) with %s", n, model.ProviderRef)

	results := make([]any, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			// A sibling already failed or the client went away; do not spend
			// another provider call.
			if err := gctx.Err(); err != nil {
				return &BatchError{Index: i, Err: err}
			}
			out, err := d.call(gctx, model, params.WithSeedOffset(i))
			if err == nil {
				err = checkOutput(out, model)
			}
			if err != nil {
				log.Error().Err(err).Int("index", i).Msg("provider call failed")
				return &BatchError{Index: i, Err: err}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Dispatcher) call(ctx context.Context, model catalog.Descriptor, params Parameters) (any, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	start := time.Now()
	out, err := d.runner.Run(ctx, model.ProviderRef, params)
	if err != nil && d.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("provider call timed out after %s: %w", d.timeout, err)
	}
	if d.observer != nil {
		d.observer.ObserveProviderCall(model.ID, time.Since(start), err)
	}
	return out, err
}

// loggerFor prefers the request scoped logger stored by the HTTP middleware.
func (d *Dispatcher) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return d.logger
}
