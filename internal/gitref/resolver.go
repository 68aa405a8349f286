// Package gitref resolves branch or tag names to commit SHAs via the
// GitHub API, so relative documentation links are checked against the
// exact tree under validation.
package gitref

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"
)

// Resolver answers "what commit does this ref point at" for one repository.
type Resolver struct {
	client *github.Client
	owner  string
	repo   string
}

// New builds a Resolver. An empty token uses unauthenticated requests,
// which is enough for public repositories at this call volume.
func New(ctx context.Context, owner, repo, token string) *Resolver {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}
	return &Resolver{client: github.NewClient(hc), owner: owner, repo: repo}
}

// NewWithClient builds a Resolver around an existing API client, used by
// tests to point at a stub server.
func NewWithClient(client *github.Client, owner, repo string) *Resolver {
	return &Resolver{client: client, owner: owner, repo: repo}
}

// Resolve returns the SHA the ref points at. An empty ref resolves the
// repository's default branch.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		repo, _, err := r.client.Repositories.Get(ctx, r.owner, r.repo)
		if err != nil {
			return "", fmt.Errorf("get repository %s/%s: %w", r.owner, r.repo, err)
		}
		ref = repo.GetDefaultBranch()
	}

	commit, _, err := r.client.Repositories.GetCommitSHA1(ctx, r.owner, r.repo, ref, "")
	if err != nil {
		return "", fmt.Errorf("resolve ref %q: %w", ref, err)
	}
	return commit, nil
}
