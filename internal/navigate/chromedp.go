// Package navigate loads URLs in a headless browser and reports the
// final document status, redirects and client-side behavior included.
package navigate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Config controls the behavior of the chromedp navigator.
type Config struct {
	UserAgent         string
	AcceptLanguage    string
	NavigationTimeout time.Duration
}

// Navigator implements check.Navigator on top of chromedp. Every
// navigation runs in a fresh tab context derived from a shared allocator,
// so a crashed tab surfaces as that target's error and nothing else.
type Navigator struct {
	cfg         Config
	allocator   context.Context
	allocCancel context.CancelFunc
}

// New creates a Navigator backed by a headless Chrome allocator.
func New(cfg Config) (*Navigator, error) {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Navigator{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close cancels the allocator context, releasing the browser.
func (n *Navigator) Close() {
	n.allocCancel()
}

// Navigate loads the URL and returns the status code of the final
// document response. The configured timeout starts here, after any
// caller-side queueing.
func (n *Navigator) Navigate(ctx context.Context, url string) (int, error) {
	taskCtx, taskCancel := chromedp.NewContext(n.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, n.cfg.NavigationTimeout)
	defer cancel()

	stopForward := forwardCancel(ctx, cancel)
	defer stopForward()

	meta := newDocumentMeta()
	chromedp.ListenTarget(taskCtx, meta.captureEvent)

	actions := []chromedp.Action{
		n.networkSetupAction(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return 0, fmt.Errorf("chromedp run: %w", err)
	}
	return meta.statusOrOK(), nil
}

func (n *Navigator) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if n.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(n.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		if n.cfg.AcceptLanguage != "" {
			headers := network.Headers{"Accept-Language": n.cfg.AcceptLanguage}
			if err := network.SetExtraHTTPHeaders(headers).Do(ctx); err != nil {
				return fmt.Errorf("set extra headers: %w", err)
			}
		}
		return nil
	})
}

// documentMeta records the status of the last document-level response
// seen on the tab, so redirect chains report their final hop.
type documentMeta struct {
	mu     sync.Mutex
	status int
}

func newDocumentMeta() *documentMeta {
	return &documentMeta{}
}

func (m *documentMeta) captureEvent(ev any) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
		return
	}
	m.mu.Lock()
	m.status = int(resp.Response.Status)
	m.mu.Unlock()
}

// statusOrOK returns the captured status, or 200 when the document loaded
// without a network event (served from cache or a data URL).
func (m *documentMeta) statusOrOK() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == 0 {
		return 200
	}
	return m.status
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
