// Package openai implements ai.GraphAIClient against any
// OpenAI-compatible API.
package openai

import (
	"math"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"plexus/pkg/ai"
)

// Client talks to OpenAI-compatible endpoints. Chat and embedding
// requests may go to different endpoints with different credentials,
// which is how mixed self-hosted/hosted deployments are wired.
type Client struct {
	chatModel      string
	embeddingModel string

	chatURL string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	chat  *openai.Client
	embed *openai.Client
}

// Params configures a Client.
type Params struct {
	ChatModel      string
	EmbeddingModel string

	ChatURL string
	ChatKey string

	EmbeddingURL string
	EmbeddingKey string

	// EmbeddingDimensions fixes the embedding vector size; zero lets
	// the model decide.
	EmbeddingDimensions int
}

// New builds a Client. An empty key leaves the corresponding inner
// client nil; calls through it fail, which surfaces the missing
// configuration instead of hiding it.
func New(params Params) *Client {
	return &Client{
		chatModel:      params.ChatModel,
		embeddingModel: params.EmbeddingModel,
		chatURL:        params.ChatURL,
		chat:           newClient(params.ChatURL, params.ChatKey),
		embed:          newClient(params.EmbeddingURL, params.EmbeddingKey),
	}
}

func newClient(baseURL, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(options...)
	return &client
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
