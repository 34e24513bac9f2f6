package core

// dispatch.go fans a corpus out to the requested operations.
//
// Every operation is a separate result-or-error call; failures, panics and
// timeouts are converted to failed outcomes and never reach sibling
// operations. Outcomes are written at the index of their request so the
// ResultSet order matches the request order no matter how many operations
// run concurrently.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/textflow/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultOperationTimeout bounds a capability call when none is configured.
const DefaultOperationTimeout = 10 * time.Second

// DefaultMaxParallel is the default number of operations run at once.
const DefaultMaxParallel = 4

// Outcome statuses reported to an Observer.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusTimeout = "timeout"
	StatusCached  = "cached"
)

// ResultCache stores successful capability outputs.
type ResultCache interface {
	Get(key string) (string, bool)
	Add(key, value string)
}

// Observer receives one call per registered operation executed.
type Observer interface {
	ObserveOperation(op, status string, d time.Duration)
}

// DispatcherConfig controls dispatch limits.
type DispatcherConfig struct {
	OperationTimeout time.Duration
	MaxParallel      int
}

// DispatcherOption configures optional dispatcher collaborators.
type DispatcherOption func(*Dispatcher)

// WithCache enables output caching keyed by operation and corpus.
func WithCache(c ResultCache) DispatcherOption {
	return func(d *Dispatcher) { d.cache = c }
}

// WithObserver reports per-operation status and latency.
func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) { d.observer = o }
}

// Dispatcher invokes registered capabilities for a list of operation ids.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
	parallel int
	cache    ResultCache
	observer Observer
}

// NewDispatcher creates a dispatcher over reg. Zero config values fall back
// to DefaultOperationTimeout and DefaultMaxParallel.
func NewDispatcher(reg *Registry, cfg DispatcherConfig, opts ...DispatcherOption) *Dispatcher {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = DefaultOperationTimeout
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = DefaultMaxParallel
	}

	d := &Dispatcher{
		registry: reg,
		timeout:  cfg.OperationTimeout,
		parallel: cfg.MaxParallel,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher looks operations up in.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs every operation in ops against corpus and returns one
// outcome per operation, in request order. It always returns len(ops)
// outcomes; it does not fail as a whole.
func (d *Dispatcher) Dispatch(ctx context.Context, corpus string, ops []string) ResultSet {
	outcomes := make([]Outcome, len(ops))

	var g errgroup.Group
	g.SetLimit(d.parallel)

	for i, op := range ops {
		g.Go(func() error {
			outcomes[i] = d.run(ctx, op, corpus)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return Aggregate(outcomes)
}

// run produces the outcome for a single operation.
func (d *Dispatcher) run(ctx context.Context, op, corpus string) Outcome {
	capability, ok := d.registry.Lookup(op)
	if !ok {
		return Outcome{Title: op, Output: "Processed " + op, Success: true}
	}

	key := cacheKey(op, corpus)
	if d.cache != nil {
		if out, hit := d.cache.Get(key); hit {
			d.observe(op, StatusCached, 0)
			return Outcome{Title: op, Output: out, Success: true}
		}
	}

	start := time.Now()
	out, err := d.invoke(ctx, capability, corpus)
	elapsed := time.Since(start)

	if err != nil {
		status := StatusFailure
		if errors.Is(err, ErrOperationTimeout) {
			status = StatusTimeout
		}
		d.observe(op, status, elapsed)

		logging.FromContext(ctx).Warn("operation failed",
			slog.String("operation", op),
			slog.String("status", status),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", elapsed.Milliseconds()),
		)
		return Outcome{Title: op, Output: fmt.Sprintf("%s failed: %v", op, err), Success: false}
	}

	d.observe(op, StatusSuccess, elapsed)
	if d.cache != nil {
		d.cache.Add(key, out)
	}
	return Outcome{Title: op, Output: out, Success: true}
}

type invokeResult struct {
	out string
	err error
}

// invoke calls capability under the operation timeout, converting panics
// to errors. A capability that ignores its context is abandoned once the
// deadline passes; its late result is dropped.
func (d *Dispatcher) invoke(ctx context.Context, capability Capability, corpus string) (string, error) {
	opCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan invokeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- invokeResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		out, err := capability(opCtx, corpus)
		done <- invokeResult{out: out, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w after %s", ErrOperationTimeout, d.timeout)
		}
		return res.out, res.err
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w after %s", ErrOperationTimeout, d.timeout)
	}
}

func (d *Dispatcher) observe(op, status string, elapsed time.Duration) {
	if d.observer != nil {
		d.observer.ObserveOperation(op, status, elapsed)
	}
}

// cacheKey identifies an (operation, corpus) pair without keeping the
// corpus itself as a map key.
func cacheKey(op, corpus string) string {
	h := sha256.New()
	h.Write([]byte(op))
	h.Write([]byte{0})
	h.Write([]byte(corpus))
	return hex.EncodeToString(h.Sum(nil))
}
