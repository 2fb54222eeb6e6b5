package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"

	"plexus/pkg/ai"
)

var errNoChatClient = errors.New("openai: chat endpoint not configured")

// GenerateCompletion sends a single-turn prompt to the chat model and
// returns the generated text.
func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	if c.chat == nil {
		return "", errNoChatClient
	}

	options := ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.3,
	}
	for _, o := range opts {
		o(&options)
	}

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    buildMessages(options.SystemPrompts, prompt),
		Temperature: openai.Float(options.Temperature),
	}
	applyThinking(&body, options.Thinking, c.chatURL)

	start := time.Now()
	response, err := c.chat.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}

	c.addMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   time.Since(start).Milliseconds(),
	})

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response for model %s", options.Model)
	}
	return response.Choices[0].Message.Content, nil
}

// GenerateCompletionWithFormat constrains the response to the JSON
// schema reflected from out and unmarshals the result into it. Models
// occasionally return broken JSON even in schema mode, so parsing goes
// through the flexible path.
func (c *Client) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if c.chat == nil {
		return errNoChatClient
	}

	options := ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	body := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(options.Model),
		Messages: buildMessages(options.SystemPrompts, prompt),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        name,
					Description: openai.String(description),
					Schema:      ai.GenerateSchema(out),
					Strict:      openai.Bool(true),
				},
			},
		},
		Temperature: openai.Float(options.Temperature),
	}
	applyThinking(&body, options.Thinking, c.chatURL)

	start := time.Now()
	response, err := c.chat.Chat.Completions.New(ctx, body)
	if err != nil {
		return err
	}

	c.addMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   time.Since(start).Milliseconds(),
	})

	if len(response.Choices) == 0 {
		return fmt.Errorf("openai: empty response for model %s", options.Model)
	}
	return ai.UnmarshalFlexible(response.Choices[0].Message.Content, out)
}

func buildMessages(systemPrompts []string, prompt string) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(systemPrompts)+1)
	for _, sp := range systemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	return append(msgs, openai.UserMessage(prompt))
}

func applyThinking(body *openai.ChatCompletionNewParams, thinking, chatURL string) {
	if thinking == "" {
		return
	}
	body.ReasoningEffort = shared.ReasoningEffort(thinking)
	// Hosted reasoning models reject temperatures other than 1.0.
	if chatURL == "" {
		body.Temperature = openai.Float(1.0)
	}
}
