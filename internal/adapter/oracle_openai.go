package adapter

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIOracle generates text through the OpenAI chat completion API or any
// compatible endpoint.
type OpenAIOracle struct {
	client    *openai.Client
	model     string
	system    string
	maxTokens int
}

// NewOpenAIOracle constructs an OpenAIOracle.
func NewOpenAIOracle(cfg OracleConfig) *OpenAIOracle {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIOracle{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		system:    cfg.System,
		maxTokens: cfg.MaxTokens,
	}
}

// Generate sends prompt as a single user message.
func (o *OpenAIOracle) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if o.system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: o.system})
	}

	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	}
	if o.maxTokens > 0 {
		req.MaxCompletionTokens = o.maxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
