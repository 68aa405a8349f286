package check

import (
	"fmt"
	"strings"
)

// Resolver maps hrefs to fully qualified URLs. Relative hrefs resolve
// against the blob view of a specific commit so documentation links are
// checked against the exact tree being validated, not whatever happens to
// be on the default branch.
type Resolver struct {
	Host   string
	Owner  string
	Repo   string
	Commit string
}

// NewResolver builds a Resolver for the given repository identity.
// Host defaults to github.com.
func NewResolver(host, owner, repo, commit string) Resolver {
	if host == "" {
		host = "github.com"
	}
	return Resolver{Host: host, Owner: owner, Repo: repo, Commit: commit}
}

// Resolve turns a href found in sourceFile into a ResolvedTarget.
//
// Absolute http(s) hrefs pass through untouched. A leading slash marks a
// repository-root-relative path. Anything else replaces the last path
// segment of sourceFile textually; a "./" prefix survives the join
// verbatim ("build/guide.md" + "./node.md" -> "build/./node.md"). GitHub
// normalizes such segments server-side, so the quirk is kept rather than
// cleaned up here.
func (r Resolver) Resolve(sourceFile, href string) ResolvedTarget {
	if IsAbsolute(href) {
		return ResolvedTarget{URL: href, Original: href}
	}

	var path string
	if strings.HasPrefix(href, "/") {
		path = strings.TrimPrefix(href, "/")
	} else {
		path = replaceLastSegment(sourceFile, href)
	}
	return ResolvedTarget{URL: r.blobURL(path), Original: href}
}

// IsAbsolute reports whether href is already a fetchable http(s) URL.
func IsAbsolute(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

func (r Resolver) blobURL(path string) string {
	return fmt.Sprintf("https://%s/%s/%s/blob/%s/%s", r.Host, r.Owner, r.Repo, r.Commit, path)
}

func replaceLastSegment(sourceFile, href string) string {
	idx := strings.LastIndex(sourceFile, "/")
	if idx < 0 {
		return href
	}
	return sourceFile[:idx+1] + href
}
