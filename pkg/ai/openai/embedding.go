package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"

	"plexus/internal/util"
	"plexus/pkg/ai"
)

const defaultDimensions = 1536

var errNoEmbedClient = errors.New("openai: embedding endpoint not configured")

// GenerateEmbedding creates a vector embedding for the given text.
// Empty input returns a zero vector of the configured dimension, so
// callers can keep row alignment without special-casing blanks.
func (c *Client) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	if c.embed == nil {
		return nil, errNoEmbedClient
	}

	dim := util.GetEnvInt("AI_EMBED_DIM", defaultDimensions)
	if len(strings.TrimSpace(string(input))) == 0 {
		return make([]float32, dim), nil
	}

	body := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(string(input)),
		},
		Dimensions: openai.Int(int64(dim)),
	}

	start := time.Now()
	response, err := c.embed.Embeddings.New(ctx, body)
	if err != nil {
		return nil, err
	}

	c.addMetrics(ai.ModelMetrics{
		InputTokens: int(response.Usage.PromptTokens),
		TotalTokens: int(response.Usage.TotalTokens),
		DurationMs:  time.Since(start).Milliseconds(),
	})

	if len(response.Data) != 1 {
		return nil, fmt.Errorf("openai: unexpected embedding count %d", len(response.Data))
	}

	vec := make([]float32, 0, len(response.Data[0].Embedding))
	for _, v := range response.Data[0].Embedding {
		vec = append(vec, float32(v))
	}
	return vec, nil
}
