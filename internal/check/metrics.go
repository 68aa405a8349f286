package check

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinksChecked tracks the number of link verifications dispatched.
	LinksChecked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docsentry_links_checked_total",
		Help: "The total number of links submitted for verification.",
	})
	// LinkFailures tracks verifications that did not yield a 2xx status.
	LinkFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docsentry_link_failures_total",
		Help: "The total number of links that failed verification.",
	})
	// NavigationsStarted tracks rendered navigation attempts.
	NavigationsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docsentry_navigations_total",
		Help: "The total number of rendered navigation attempts.",
	})
	// FallbackProbes tracks HEAD probes issued after a navigation error.
	FallbackProbes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docsentry_fallback_probes_total",
		Help: "The total number of HEAD fallback probes that produced a status.",
	})
)
