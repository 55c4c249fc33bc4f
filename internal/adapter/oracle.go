package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/time/rate"
)

// ErrMissingAPIKey is returned when a backend has no credentials configured.
var ErrMissingAPIKey = errors.New("missing API key")

// Oracle is the generative text capability: prompt in, text out. Its output
// is untrusted and may be empty.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by NewOracle.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// OracleConfig selects and configures a backend.
type OracleConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	// System is sent as the system instruction where the backend supports it.
	System string
	// RequestsPerSecond throttles calls; zero disables throttling.
	RequestsPerSecond float64
	MaxTokens         int
}

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-2.0-flash",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

var apiKeyEnv = map[string][]string{
	ProviderOpenAI:    {"OPENAI_API_KEY"},
	ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
}

// NewOracle builds the configured backend, wrapped in a rate limiter when
// RequestsPerSecond is set. Missing model and key fall back to defaults and
// the provider's usual environment variables.
func NewOracle(ctx context.Context, cfg OracleConfig, logger *slog.Logger) (Oracle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}

	if cfg.Model == "" {
		cfg.Model = defaultModels[provider]
	}

	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(provider)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %q (set %s)", ErrMissingAPIKey, provider, strings.Join(apiKeyEnv[provider], " or "))
	}

	var (
		oracle Oracle
		err    error
	)

	switch provider {
	case ProviderOpenAI:
		oracle = NewOpenAIOracle(cfg)
	case ProviderGemini:
		oracle, err = NewGeminiOracle(ctx, cfg)
	case ProviderAnthropic:
		oracle = NewAnthropicOracle(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}

	if err != nil {
		return nil, err
	}

	logger.Info("oracle initialized", "provider", provider, "model", cfg.Model)

	if cfg.RequestsPerSecond > 0 {
		oracle = NewRateLimitedOracle(oracle, cfg.RequestsPerSecond)
	}

	return oracle, nil
}

func apiKeyFromEnv(provider string) string {
	for _, name := range apiKeyEnv[provider] {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}

	return ""
}

// RateLimitedOracle delays calls so the wrapped oracle sees at most the
// configured request rate across all sessions.
type RateLimitedOracle struct {
	next    Oracle
	limiter *rate.Limiter
}

// NewRateLimitedOracle wraps next with a token-bucket limiter (burst 1).
func NewRateLimitedOracle(next Oracle, requestsPerSecond float64) *RateLimitedOracle {
	return &RateLimitedOracle{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Generate waits for a token, then delegates.
func (o *RateLimitedOracle) Generate(ctx context.Context, prompt string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		// The limiter refuses up front when the next token lies past ctx's
		// deadline.
		if _, ok := ctx.Deadline(); ok {
			return "", fmt.Errorf("rate limit: %w: %w", context.DeadlineExceeded, err)
		}

		return "", fmt.Errorf("rate limit: %w", err)
	}

	return o.next.Generate(ctx, prompt)
}
