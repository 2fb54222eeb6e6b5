package ollama

import (
	"context"
	"strings"

	"github.com/ollama/ollama/api"

	"plexus/internal/util"
	"plexus/pkg/ai"
)

const defaultDimensions = 1536

// GenerateEmbedding creates a vector embedding for the given text.
// Empty input returns a zero vector of the configured dimension.
func (c *Client) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	dim := util.GetEnvInt("AI_EMBED_DIM", defaultDimensions)
	if len(strings.TrimSpace(string(input))) == 0 {
		return make([]float32, dim), nil
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	res, err := c.api.Embed(ctx, &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: string(input),
	})
	if err != nil {
		return nil, err
	}

	c.addMetrics(ai.ModelMetrics{
		InputTokens: res.PromptEvalCount,
		TotalTokens: res.PromptEvalCount,
		DurationMs:  res.TotalDuration.Milliseconds(),
	})

	// Truncate or keep whole depending on the server's native size.
	out := make([]float32, 0, dim)
	for _, vec := range res.Embeddings {
		for _, v := range vec {
			if len(out) >= dim {
				break
			}
			out = append(out, float32(v))
		}
	}
	return out, nil
}
