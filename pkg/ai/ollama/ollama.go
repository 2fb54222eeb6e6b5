// Package ollama implements ai.GraphAIClient against a local or remote
// Ollama server.
package ollama

import (
	"math"
	"net/http"
	"net/url"
	"sync"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"

	"plexus/pkg/ai"
)

// Client talks to one Ollama server. A weighted semaphore bounds
// concurrent requests because a single Ollama instance serializes
// model execution anyway; queueing client-side keeps timeouts sane.
type Client struct {
	chatModel      string
	embeddingModel string

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	api *api.Client
}

// Params configures a Client.
type Params struct {
	ChatModel      string
	EmbeddingModel string

	BaseURL string
	APIKey  string

	// MaxConcurrentRequests bounds in-flight requests; values below 1
	// are raised to 1.
	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// New builds a Client for the server at BaseURL; an empty BaseURL uses
// the Ollama default.
func New(params Params) (*Client, error) {
	var (
		u   *url.URL
		err error
	)
	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := http.DefaultClient
	if params.APIKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{"Authorization": "Bearer " + params.APIKey},
				rt:      http.DefaultTransport,
			},
		}
	}

	concurrency := params.MaxConcurrentRequests
	if concurrency < 1 {
		concurrency = 1
	}

	return &Client{
		chatModel:      params.ChatModel,
		embeddingModel: params.EmbeddingModel,
		reqLock:        semaphore.NewWeighted(concurrency),
		api:            api.NewClient(u, httpClient),
	}, nil
}

// ResetMetrics clears accumulated token and timing metrics.
func (c *Client) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the metrics accumulated since the last reset.
func (c *Client) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *Client) addMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs

	if c.metrics.DurationMs > 0 {
		perSecond := float64(c.metrics.TotalTokens) * 1000.0 / float64(c.metrics.DurationMs)
		c.metrics.TokenPerSecond = float32(math.Round(perSecond*100) / 100)
	}
}
