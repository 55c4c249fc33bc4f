package adapter

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiOracle generates text through the Gemini API.
type GeminiOracle struct {
	client    *genai.Client
	model     string
	system    string
	maxTokens int
}

// NewGeminiOracle constructs a GeminiOracle.
func NewGeminiOracle(ctx context.Context, cfg OracleConfig) (*GeminiOracle, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &GeminiOracle{client: client, model: cfg.Model, system: cfg.System, maxTokens: cfg.MaxTokens}, nil
}

// Generate sends prompt as a single user turn and joins the text parts of the
// first candidate.
func (g *GeminiOracle) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if g.system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: g.system}}}
	}

	if g.maxTokens > 0 {
		config.MaxOutputTokens = int32(g.maxTokens) //nolint:gosec // bounded by config validation
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}

	return b.String(), nil
}
