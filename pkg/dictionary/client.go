// Package dictionary queries a remote dictionary API for term definitions.
// It is the fallback definition source behind the local glossary.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/vocab-cli/internal/resilience"
)

const defaultBaseURL = "https://api.dictionaryapi.dev/api/v2"

// Client looks up term definitions.
type Client interface {
	Lookup(ctx context.Context, term string) (string, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the request rate limit and burst.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a rate-limited dictionary API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// entry mirrors the API response: a list of entries with meanings and
// definitions.
type entry struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Lookup returns the first definition for the term, or "" when the API does
// not know it. Multi-word terms are not queried: the API covers single
// dictionary words only.
func (c *httpClient) Lookup(ctx context.Context, term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" || strings.ContainsAny(term, " \t") {
		return "", nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "dictionary: rate limit wait")
	}

	return resilience.DoVal(ctx, c.retry, "dictionary", func(ctx context.Context) (string, error) {
		return c.lookupOnce(ctx, term)
	})
}

func (c *httpClient) lookupOnce(ctx context.Context, term string) (string, error) {
	endpoint := fmt.Sprintf("%s/entries/en/%s", c.baseURL, url.PathEscape(strings.ToLower(term)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", eris.Wrap(err, "dictionary: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "dictionary: lookup %q", term)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", resilience.NewTransientError(
			eris.Errorf("dictionary: status %d for %q", resp.StatusCode, term),
			resp.StatusCode,
		)
	case resp.StatusCode != http.StatusOK:
		return "", eris.Errorf("dictionary: status %d for %q", resp.StatusCode, term)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "dictionary: read response")
	}

	var entries []entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return "", eris.Wrap(err, "dictionary: decode response")
	}
	for _, e := range entries {
		for _, m := range e.Meanings {
			for _, d := range m.Definitions {
				if d.Definition != "" {
					return d.Definition, nil
				}
			}
		}
	}
	return "", nil
}
