package check

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DispatcherConfig controls pool sizing and the fallback probe timeout.
// The navigation timeout lives in the Navigator, which applies it after
// a slot is acquired so queue time never counts against an attempt.
type DispatcherConfig struct {
	PoolSize     int
	ProbeTimeout time.Duration
}

// Dispatcher owns the fixed-size pool of rendered-navigation slots and
// routes submitted targets through the Verifier. Only the primary
// strategy is admitted through the pool; the HEAD fallback is unbounded
// so slow probes never starve the browser slots. Submissions beyond the
// pool size queue on the slot channel in FIFO order.
type Dispatcher struct {
	verifier *Verifier
	slots    chan struct{}
}

// NewDispatcher builds the pool and the verifier it feeds.
func NewDispatcher(navigator Navigator, prober Prober, cfg DispatcherConfig, logger *zap.Logger) (*Dispatcher, error) {
	if navigator == nil {
		return nil, fmt.Errorf("navigator must not be nil")
	}
	if cfg.PoolSize <= 0 {
		return nil, fmt.Errorf("pool size must be > 0, got %d", cfg.PoolSize)
	}
	slots := make(chan struct{}, cfg.PoolSize)
	bounded := &boundedNavigator{inner: navigator, slots: slots}
	return &Dispatcher{
		verifier: NewVerifier(bounded, prober, cfg.ProbeTimeout, logger),
		slots:    slots,
	}, nil
}

// Submit verifies one target, queueing until a navigation slot frees.
// It always returns an Outcome; per-target failures never escape.
func (d *Dispatcher) Submit(ctx context.Context, target ResolvedTarget, sourceFile string) Outcome {
	LinksChecked.Inc()
	return d.verifier.Verify(ctx, target, sourceFile)
}

// InFlight returns the number of navigation slots currently held.
func (d *Dispatcher) InFlight() int {
	return len(d.slots)
}

// boundedNavigator gates an inner Navigator behind the slot pool.
type boundedNavigator struct {
	inner Navigator
	slots chan struct{}
}

func (b *boundedNavigator) Navigate(ctx context.Context, url string) (int, error) {
	select {
	case b.slots <- struct{}{}:
	case <-ctx.Done():
		return 0, fmt.Errorf("wait for navigation slot: %w", ctx.Err())
	}
	defer func() { <-b.slots }()
	return b.inner.Navigate(ctx, url)
}
