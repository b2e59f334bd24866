package analysis

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/augurlabs/AugurGo/config"
)

// InitChatModel builds the synthesis chat model for the configured
// provider. A nil model (no provider or no API key) is valid; the
// analyzer then produces its deterministic narrative instead.
func InitChatModel(ctx context.Context, cfg *config.Config) (model.ChatModel, error) {
	switch cfg.LLMProvider {
	case "", "none":
		return nil, nil
	case "deepseek":
		if cfg.DeepSeekAPIKey == "" {
			return nil, nil
		}
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.SynthesisModel,
			MaxTokens: 2000,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek model: %w", err)
		}
		return cm, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		maxTokens := 2000
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.SynthesisModel,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return cm, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}
