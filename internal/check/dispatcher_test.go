package check

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// countingNavigator records the peak number of concurrent navigations.
type countingNavigator struct {
	active int64
	peak   int64
	delay  time.Duration
}

func (n *countingNavigator) Navigate(ctx context.Context, url string) (int, error) {
	current := atomic.AddInt64(&n.active, 1)
	defer atomic.AddInt64(&n.active, -1)

	for {
		observed := atomic.LoadInt64(&n.peak)
		if current <= observed || atomic.CompareAndSwapInt64(&n.peak, observed, current) {
			break
		}
	}
	time.Sleep(n.delay)
	return 200, nil
}

type stubProber struct {
	status int
	err    error
}

func (p *stubProber) Head(ctx context.Context, url string) (int, error) {
	return p.status, p.err
}

func TestNewDispatcherValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewDispatcher(nil, nil, DispatcherConfig{PoolSize: 1}, nil); err == nil {
		t.Fatal("expected error for nil navigator")
	}
	if _, err := NewDispatcher(&countingNavigator{}, nil, DispatcherConfig{PoolSize: 0}, nil); err == nil {
		t.Fatal("expected error for zero pool size")
	}
}

func TestDispatcherBoundsPrimaryConcurrency(t *testing.T) {
	t.Parallel()

	const poolSize = 3
	const submissions = 20

	nav := &countingNavigator{delay: 10 * time.Millisecond}
	d, err := NewDispatcher(nav, nil, DispatcherConfig{PoolSize: poolSize}, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := ResolvedTarget{URL: fmt.Sprintf("https://example.com/%d", i)}
			out := d.Submit(context.Background(), target, "a.md")
			if out.Status != 200 {
				t.Errorf("expected status 200, got %+v", out)
			}
		}(i)
	}
	wg.Wait()

	if peak := atomic.LoadInt64(&nav.peak); peak > poolSize {
		t.Fatalf("pool bound violated: %d concurrent navigations with pool size %d", peak, poolSize)
	}
	if d.InFlight() != 0 {
		t.Fatalf("expected all slots released, %d still held", d.InFlight())
	}
}

// The HEAD fallback runs outside the slot pool, so a probe can proceed
// while every navigation slot is saturated.
func TestDispatcherFallbackBypassesPool(t *testing.T) {
	t.Parallel()

	nav := &failingNavigator{}
	prober := &stubProber{status: 200}
	d, err := NewDispatcher(nav, prober, DispatcherConfig{PoolSize: 1}, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	out := d.Submit(context.Background(), ResolvedTarget{URL: "https://example.com"}, "a.md")
	if out.Status != 200 || !out.FellBack {
		t.Fatalf("expected fallback outcome, got %+v", out)
	}
	if d.InFlight() != 0 {
		t.Fatalf("expected slot released before fallback, %d held", d.InFlight())
	}
}

type failingNavigator struct{}

func (f *failingNavigator) Navigate(ctx context.Context, url string) (int, error) {
	return 0, errors.New("render engine crashed")
}

// Not parallel: reads the process-wide counters, so it must not overlap
// other submissions.
func TestSubmitIncrementsCounters(t *testing.T) {
	checkedBefore := testutil.ToFloat64(LinksChecked)
	navsBefore := testutil.ToFloat64(NavigationsStarted)
	fallbacksBefore := testutil.ToFloat64(FallbackProbes)
	failuresBefore := testutil.ToFloat64(LinkFailures)

	nav := &failingNavigator{}
	d, err := NewDispatcher(nav, &stubProber{status: 200}, DispatcherConfig{PoolSize: 1}, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	d.Submit(context.Background(), ResolvedTarget{URL: "https://example.com/ok"}, "a.md")

	failing, err := NewDispatcher(nav, &stubProber{err: errors.New("dns failure")}, DispatcherConfig{PoolSize: 1}, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	failing.Submit(context.Background(), ResolvedTarget{URL: "https://example.com/broken"}, "a.md")

	if got := testutil.ToFloat64(LinksChecked) - checkedBefore; got != 2 {
		t.Fatalf("expected 2 links counted, got %v", got)
	}
	if got := testutil.ToFloat64(NavigationsStarted) - navsBefore; got != 2 {
		t.Fatalf("expected 2 navigations counted, got %v", got)
	}
	if got := testutil.ToFloat64(FallbackProbes) - fallbacksBefore; got != 1 {
		t.Fatalf("expected 1 fallback probe counted, got %v", got)
	}
	if got := testutil.ToFloat64(LinkFailures) - failuresBefore; got != 1 {
		t.Fatalf("expected 1 failure counted, got %v", got)
	}
}

func TestDispatcherCanceledWhileQueued(t *testing.T) {
	t.Parallel()

	nav := &countingNavigator{delay: 200 * time.Millisecond}
	d, err := NewDispatcher(nav, nil, DispatcherConfig{PoolSize: 1}, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	// Occupy the only slot.
	go d.Submit(context.Background(), ResolvedTarget{URL: "https://example.com/hold"}, "a.md")
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := d.Submit(ctx, ResolvedTarget{URL: "https://example.com/queued", Original: "queued"}, "a.md")

	if out.Status != 0 || out.Err == nil {
		t.Fatalf("expected queued submission to fail on cancellation, got %+v", out)
	}
	if out.Original != "queued" {
		t.Fatalf("expected original href on outcome, got %q", out.Original)
	}
}
