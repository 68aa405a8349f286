package check

import "context"

// Navigator loads a URL the way a browser would, following redirects and
// client-side behavior, and returns the final document status code.
type Navigator interface {
	Navigate(ctx context.Context, url string) (int, error)
}

// Prober issues a lightweight HEAD request with browser-like headers and
// returns the status code, or an error on network failure.
type Prober interface {
	Head(ctx context.Context, url string) (int, error)
}

// Extractor yields the hrefs contained in markdown source, in order of
// first appearance, duplicates preserved.
type Extractor interface {
	ExtractLinks(src []byte) []string
}

// Source abstracts file discovery and reading for the scanned tree.
// Discover returns root-relative slash paths in deterministic order.
type Source interface {
	Discover() ([]string, error)
	ReadFile(path string) ([]byte, error)
}
