package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "corpus", cfg.Corpus.Dir)
	assert.Contains(t, cfg.Corpus.Extensions, ".txt")

	assert.True(t, cfg.Rarity.Enabled)
	assert.Equal(t, 5, cfg.Rarity.MinCorpusDocs)
	assert.Equal(t, 1.2, cfg.Rarity.K1)
	assert.Equal(t, 0.75, cfg.Rarity.B)
	assert.Equal(t, 15.0, cfg.Rarity.ConfidenceDivisor)

	assert.Equal(t, 20, cfg.Learner.MinTotalRatings)
	assert.Equal(t, 10, cfg.Learner.RetrainEvery)
	assert.Equal(t, 30.0, cfg.Learner.BoostSwing)

	assert.Equal(t, 500_000, cfg.Extractor.MaxTextLen)
	assert.Equal(t, 0.5, cfg.Extractor.DocFreqCeiling)
	assert.True(t, cfg.Extractor.Parallel)

	assert.False(t, cfg.Dictionary.Enabled)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("VOCAB_RARITY_MIN_CORPUS_DOCS", "9")
	t.Setenv("VOCAB_CORPUS_DIR", "/tmp/refdocs")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Rarity.MinCorpusDocs)
	assert.Equal(t, "/tmp/refdocs", cfg.Corpus.Dir)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope"}))
}
