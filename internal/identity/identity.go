// Package identity resolves request credentials to owner ids. Every
// ledger call is scoped to the owner the token maps to; there is no
// cross-owner access path.
package identity

import (
	"context"

	"orcamento/internal/core"
)

// Provider turns a bearer token into an owner id.
type Provider interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// StaticProvider maps tokens to owners from configuration. It is the
// deployment model for a single-family install; anything larger would
// swap in a real identity backend behind the same interface.
type StaticProvider struct {
	tokens map[string]string
}

func NewStaticProvider(tokens map[string]string) *StaticProvider {
	return &StaticProvider{tokens: tokens}
}

func (p *StaticProvider) Resolve(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", core.ErrNotAuthenticated
	}
	owner, ok := p.tokens[token]
	if !ok {
		return "", core.ErrNotAuthenticated
	}
	return owner, nil
}
