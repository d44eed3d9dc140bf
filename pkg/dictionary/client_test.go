package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vocab-cli/internal/resilience"
)

const sampleResponse = `[{
	"word": "stent",
	"meanings": [{
		"partOfSpeech": "noun",
		"definitions": [{"definition": "a small mesh tube inserted into a vessel"}]
	}]
}]`

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000, 1000),
		WithRetry(fastRetry()),
	)
}

func TestLookup_ReturnsFirstDefinition(t *testing.T) {
	var path atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Write([]byte(sampleResponse))
	})

	def, err := c.Lookup(context.Background(), "Stent")
	require.NoError(t, err)
	assert.Equal(t, "a small mesh tube inserted into a vessel", def)
	assert.Equal(t, "/entries/en/stent", path.Load())
}

func TestLookup_NotFoundIsEmptyNotError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	def, err := c.Lookup(context.Background(), "zxqw")
	require.NoError(t, err)
	assert.Empty(t, def)
}

func TestLookup_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(sampleResponse))
	})

	def, err := c.Lookup(context.Background(), "stent")
	require.NoError(t, err)
	assert.Equal(t, "a small mesh tube inserted into a vessel", def)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLookup_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Lookup(context.Background(), "stent")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLookup_SkipsMultiWordTerms(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	def, err := c.Lookup(context.Background(), "summary judgment")
	require.NoError(t, err)
	assert.Empty(t, def)

	def, err = c.Lookup(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, def)
	assert.Equal(t, int32(0), calls.Load(), "no HTTP call for unqueryable terms")
}
