package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/classifier"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/config"
)

// NewClassifier 根据配置创建分类器实例
func NewClassifier(ctx context.Context, cfg *config.Config) (classifier.Classifier, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Classifier.Provider))
	if provider == "" {
		provider = config.DefaultProvider
	}

	switch provider {
	case "lexicon":
		return classifier.NewLexiconClassifier(), nil

	case "openai", "llm":
		return classifier.NewLLMClassifier(ctx, cfg.LLM, cfg.Concurrency)

	case "ollama":
		return classifier.NewOllamaClassifier(cfg.Ollama)

	default:
		return nil, fmt.Errorf("unknown classifier provider: %s", provider)
	}
}
