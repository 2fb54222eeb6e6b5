package ollama

import (
	"context"
	"encoding/json"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"

	"plexus/pkg/ai"
)

// GenerateCompletion sends a single-turn prompt and returns the
// assistant text.
func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.3,
	}
	for _, o := range opts {
		o(&options)
	}

	final, err := c.chat(ctx, prompt, options, nil)
	if err != nil {
		return "", err
	}
	return final.Message.Content, nil
}

// GenerateCompletionWithFormat constrains the response to the JSON
// schema reflected from out and unmarshals the result into it.
func (c *Client) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	options := ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	formatBytes, err := json.Marshal(ai.GenerateSchema(out))
	if err != nil {
		return err
	}
	format := json.RawMessage(formatBytes)

	final, err := c.chat(ctx, prompt, options, format)
	if err != nil {
		return err
	}
	return ai.UnmarshalFlexible(final.Message.Content, out)
}

func (c *Client) chat(
	ctx context.Context,
	prompt string,
	options ai.GenerateOptions,
	format json.RawMessage,
) (api.ChatResponse, error) {
	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Format:   format,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	if options.Thinking != "" {
		req.Think = &api.ThinkValue{Value: options.Thinking}
	}
	if n, err := promptTokens(msgs); err == nil && n > 4096 {
		// Ollama silently truncates at the default context window;
		// widen it for long extraction units.
		req.Options["num_ctx"] = n
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return api.ChatResponse{}, err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	err := c.api.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	})
	if err != nil {
		return api.ChatResponse{}, err
	}

	c.addMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	return final, nil
}

// promptTokens estimates the token count of the request, padded for
// the response.
func promptTokens(msgs []api.Message) (int, error) {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0, err
	}
	n := 200
	for _, m := range msgs {
		n += len(enc.Encode(m.Content, nil, nil))
	}
	return n, nil
}
