package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/config"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

// LLMClassifier 通过 OpenAI 兼容接口调用大模型进行分类
type LLMClassifier struct {
	chatModel  model.BaseChatModel
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
}

var _ Classifier = (*LLMClassifier)(nil)

// NewLLMClassifier 初始化 LLM 与限流器
func NewLLMClassifier(ctx context.Context, llm config.LLMConfig, cc config.ConcurrencyConfig) (*LLMClassifier, error) {
	if llm.APIKey == "" {
		return nil, fmt.Errorf("llm api key is missing")
	}
	if llm.Model == "" {
		return nil, fmt.Errorf("llm model is missing")
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: llm.BaseURL,
		APIKey:  llm.APIKey,
		Model:   llm.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// Limit 设置为 RPM/60，Burst 设置为 QPS
	limiter := rate.NewLimiter(rate.Limit(float64(cc.RPM)/60.0), cc.QPS)
	return NewLLMClassifierWithModel(chatModel, limiter), nil
}

// NewLLMClassifierWithModel 使用已有的 ChatModel 创建分类器，limiter 为空时不限流
func NewLLMClassifierWithModel(cm model.BaseChatModel, limiter *rate.Limiter) *LLMClassifier {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &LLMClassifier{
		chatModel:  cm,
		limiter:    limiter,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}

// Classify 调用 LLM 对单条标题分类（带重试机制）
func (c *LLMClassifier) Classify(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: "你是一个 JSON 生成器。请只输出 JSON 字符串。"},
		{Role: schema.User, Content: fmt.Sprintf(verdictPrompt, text)},
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.chatModel.Generate(ctx, messages)
		if err != nil {
			if isRateLimited(err) {
				lastErr = err
				if i < c.maxRetries {
					if err := sleep(ctx, c.baseDelay*time.Duration(1<<i)); err != nil {
						return nil, err
					}
					continue
				}
			}
			return nil, err
		}

		res, err := parseVerdict(resp.Content)
		if err != nil {
			lastErr = err
			continue
		}
		return res, nil
	}
	return nil, fmt.Errorf("failed after retries: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
