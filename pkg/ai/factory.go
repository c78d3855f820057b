package ai

import (
	"context"
	"fmt"

	"github.com/BhavyPan/Advance-Web/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType

	// Gemini config
	GeminiAPIKey string
	GeminiModel  string

	// OpenAI config
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// DynamicConfig reads the Ollama location through getters so it can change at runtime
type DynamicConfig struct {
	Config
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string
}

// NewCompleter creates a Completer based on the config.
// Switch AI provider by changing config.Provider.
func NewCompleter(ctx context.Context, cfg Config) (Completer, error) {
	return NewCompleterWithDynamicConfig(ctx, DynamicConfig{Config: cfg})
}

// NewCompleterWithDynamicConfig is NewCompleter with runtime-mutable Ollama settings
func NewCompleterWithDynamicConfig(ctx context.Context, cfg DynamicConfig) (Completer, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), nil

	case ProviderOllama:
		return newOllama(cfg), nil

	case ProviderAuto:
		// Hosted model first, local Ollama as fallback
		var hosted Completer
		switch {
		case cfg.GeminiAPIKey != "":
			svc, err := gemini.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return nil, err
			}
			hosted = svc
		case cfg.OpenAIAPIKey != "":
			hosted = NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		}
		ollama := newOllama(cfg)
		if hosted == nil {
			return ollama, nil
		}
		return NewFallbackService(hosted, ollama), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

func newOllama(cfg DynamicConfig) *OllamaService {
	if cfg.GetOllamaBaseURL != nil && cfg.GetOllamaModel != nil {
		return NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel)
	}
	return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
}
