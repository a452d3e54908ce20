package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"career_assistant/src/model"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"
)

const (
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderDeepSeek = "deepseek"
	ProviderArk      = "ark"

	// DefaultBaseURL is the OpenRouter endpoint used by the openai provider
	DefaultBaseURL       = "https://openrouter.ai/api/v1"
	defaultOllamaBaseURL = "http://localhost:11434"
)

var ErrUnknownProvider = errors.New("unknown LLM provider")

// NewChatModel creates the chat model selected by cfg.Provider
func NewChatModel(ctx context.Context, cfg model.LLMConfig) (einomodel.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     baseURL(cfg, DefaultBaseURL),
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %w", err)
		}
		return chatModel, nil

	case ProviderOllama:
		chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL(cfg, defaultOllamaBaseURL),
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
			Options: &api.Options{
				Temperature: temperature,
				NumPredict:  maxTokens,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %w", err)
		}
		return chatModel, nil

	case ProviderDeepSeek:
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     baseURL(cfg, ""),
			Model:       cfg.Model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating deepseek chat model: %w", err)
		}
		return chatModel, nil

	case ProviderArk:
		chatModel, err := ark.NewChatModel(ctx, arkConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("error creating ark chat model: %w", err)
		}
		return chatModel, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}

// arkConfig leaves Timeout unset when none is configured so the SDK default applies
func arkConfig(cfg model.LLMConfig) *ark.ChatModelConfig {
	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)

	config := &ark.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL(cfg, ""),
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		config.Timeout = &timeout
	}
	return config
}

// baseURL keeps an explicitly configured endpoint. The OpenRouter default
// only applies to the openai provider, the others fall back to fallback.
func baseURL(cfg model.LLMConfig, fallback string) string {
	if cfg.BaseURL == "" || cfg.BaseURL == DefaultBaseURL {
		return fallback
	}
	return cfg.BaseURL
}
