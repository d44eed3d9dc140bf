package definitions

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

type mapProvider map[string]string

func (m mapProvider) Lookup(ctx context.Context, term string) (string, error) {
	return m[term], nil
}

type failingProvider struct{}

func (failingProvider) Lookup(ctx context.Context, term string) (string, error) {
	return "", eris.New("definitions: provider down")
}

func TestChain_FirstHitWins(t *testing.T) {
	chain := NewChain(
		mapProvider{"stent": "local definition"},
		mapProvider{"stent": "remote definition", "biopsy": "tissue sampling"},
	)
	ctx := context.Background()
	assert.Equal(t, "local definition", chain.Lookup(ctx, "stent"))
	assert.Equal(t, "tissue sampling", chain.Lookup(ctx, "biopsy"))
}

func TestChain_MissYieldsPlaceholder(t *testing.T) {
	chain := NewChain(mapProvider{})
	assert.Equal(t, Placeholder, chain.Lookup(context.Background(), "zygoma"))
}

func TestChain_ProviderErrorIsAMiss(t *testing.T) {
	chain := NewChain(failingProvider{}, mapProvider{"stent": "a small mesh tube"})
	assert.Equal(t, "a small mesh tube", chain.Lookup(context.Background(), "stent"))

	onlyFailing := NewChain(failingProvider{})
	assert.Equal(t, Placeholder, onlyFailing.Lookup(context.Background(), "stent"))
}

func TestChain_SkipsNilProviders(t *testing.T) {
	chain := NewChain(nil, mapProvider{"stent": "ok"}, nil)
	assert.Equal(t, "ok", chain.Lookup(context.Background(), "stent"))
}
