// Package probe issues lightweight HEAD requests with browser-like
// headers, used when rendered navigation itself fails.
package probe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"

// Config controls header values and the per-request timeout.
type Config struct {
	UserAgent      string
	AcceptLanguage string
	Accept         string
	Timeout        time.Duration
}

// Prober implements check.Prober using a Colly collector per request.
type Prober struct {
	cfg  Config
	base *colly.Collector
}

// New constructs a configured Colly-based Prober.
func New(cfg Config) *Prober {
	if cfg.Accept == "" {
		cfg.Accept = defaultAccept
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = "en-US,en;q=0.9"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	base := colly.NewCollector()
	base.IgnoreRobotsTxt = true
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		base.UserAgent = cfg.UserAgent
	}

	return &Prober{cfg: cfg, base: base}
}

// Head probes the URL and returns its status code. Sites that answer
// HEAD with an error status still yield that status; only transport
// failures return an error.
func (p *Prober) Head(ctx context.Context, url string) (int, error) {
	collector := p.base.Clone()

	var (
		status   int
		probeErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", p.cfg.Accept)
		r.Headers.Set("Accept-Language", p.cfg.AcceptLanguage)
	})
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	collector.OnError(func(r *colly.Response, err error) {
		// Colly reports non-2xx statuses through OnError; a received
		// status is still a valid probe result.
		if r != nil && r.StatusCode != 0 {
			status = r.StatusCode
			return
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		probeErr = err
	})

	if err := collector.Head(url); err != nil && status == 0 && probeErr == nil {
		probeErr = err
	}
	collector.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	if probeErr != nil {
		return 0, probeErr
	}
	if status == 0 {
		return 0, errors.New("head probe produced no status")
	}
	return status, nil
}
