// Package definitions resolves short definitions for vocabulary terms via a
// chain of providers: the local glossary first, then any remote fallback.
// A miss yields a placeholder, never an error.
package definitions

import (
	"context"

	"go.uber.org/zap"
)

// Placeholder is returned when no provider knows the term.
const Placeholder = "No definition available."

// Provider resolves a definition for a term. Returning an empty string with
// a nil error means "not found" and the chain moves on.
type Provider interface {
	Lookup(ctx context.Context, term string) (string, error)
}

// Chain queries providers in order and returns the first hit. Provider
// errors are logged and treated as misses: definitions are decoration, not
// a reason to fail an extraction.
type Chain struct {
	providers []Provider
}

// NewChain creates a Chain. Nil providers are skipped.
func NewChain(providers ...Provider) *Chain {
	var ps []Provider
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Chain{providers: ps}
}

// Lookup resolves a definition or the placeholder.
func (c *Chain) Lookup(ctx context.Context, term string) string {
	for _, p := range c.providers {
		def, err := p.Lookup(ctx, term)
		if err != nil {
			zap.L().Debug("definitions: provider lookup failed",
				zap.String("term", term),
				zap.Error(err),
			)
			continue
		}
		if def != "" {
			return def
		}
	}
	return Placeholder
}
