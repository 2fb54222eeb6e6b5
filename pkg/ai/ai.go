// Package ai defines the client interface for the language models that
// turn document text into graphs. Implementations live in the openai
// and ollama subpackages; everything above this package programs
// against GraphAIClient only.
package ai

import "context"

// GenerateOptions holds configuration for generation requests.
type GenerateOptions struct {
	Model         string   // model identifier to use for generation
	SystemPrompts []string // system prompts prepended to the request
	Temperature   float64  // sampling temperature
	Thinking      string   // extended reasoning mode, model dependent
}

// GenerateOption is a functional option for configuring generation
// requests.
type GenerateOption func(*GenerateOptions)

// WithModel sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts sets the system prompts prepended to the request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature sets the sampling temperature. Lower values make
// extraction output more deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithThinking enables extended reasoning with the given budget or
// effort string.
func WithThinking(thinking string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Thinking = thinking
	}
}

// ModelMetrics accumulates token usage and timing across requests.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// GraphAIClient is the model surface the extraction pipeline needs:
// free-form completions, schema-constrained completions, and text
// embeddings, plus metrics bookkeeping per pipeline run.
type GraphAIClient interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)

	// GenerateCompletionWithFormat constrains the response to the
	// JSON schema derived from out and unmarshals into it. name and
	// description label the schema for the provider.
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error

	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}
