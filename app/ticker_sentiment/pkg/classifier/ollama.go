package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/config"
)

// OllamaClassifier 调用本地 Ollama 模型进行分类
type OllamaClassifier struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ Classifier = (*OllamaClassifier)(nil)

// NewOllamaClassifier 创建 Ollama 分类器
func NewOllamaClassifier(cfg config.OllamaConfig) (*OllamaClassifier, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama base url is missing")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is missing")
	}
	t := time.Duration(cfg.Timeout) * time.Second
	if t == 0 {
		t = 90 * time.Second
	}
	return &OllamaClassifier{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

// GenerateRequest Ollama /api/generate 请求
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

// GenerateResponse Ollama /api/generate 响应
type GenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Classify 对单条标题分类
func (c *OllamaClassifier) Classify(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	payload, err := json.Marshal(GenerateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(verdictPrompt, text),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama api error (status %d): %s", res.StatusCode, string(body))
	}

	var gen GenerateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return parseVerdict(gen.Response)
}
