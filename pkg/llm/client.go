package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/aivanahq/aivana-backend/pkg/config"
)

// Client wraps the OpenAI chat completion API with the model parameters the
// sales agent runs with.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

func New(openaiCfg config.OpenAIConfig, agentCfg config.AgentConfig) (*Client, error) {
	key := strings.TrimSpace(openaiCfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
	}
	if trimmed := strings.TrimRight(openaiCfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if openaiCfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(openaiCfg.Timeout))
	}

	client := openai.NewClient(opts...)
	return &Client{
		api:         client,
		model:       agentCfg.Model,
		temperature: agentCfg.Temperature,
		maxTokens:   agentCfg.MaxTokens,
	}, nil
}

// Complete runs one chat completion turn. Pass nil tools to force a plain
// text answer.
func (c *Client) Complete(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
	tools []openai.ChatCompletionToolUnionParam,
) (*openai.ChatCompletionMessage, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	}
	if len(tools) > 0 {
		params.Tools = tools
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	return &completion.Choices[0].Message, nil
}
