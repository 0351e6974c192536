package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyText 待分类文本为空
var ErrEmptyText = errors.New("empty text")

// Classifier 把一段文本映射为情感标签与置信度
type Classifier interface {
	Classify(ctx context.Context, text string) (*Result, error)
}

// Result 分类器原始输出，Label 尚未归一化
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// verdictPrompt 要求模型只返回 JSON
const verdictPrompt = `You are a financial news sentiment classifier.
Classify the sentiment of the following stock news headline for investors.
Respond strictly with a JSON object and nothing else, no markdown:
{"label": "positive" | "negative" | "neutral", "score": <confidence between 0 and 1>}

Headline: %s`

// parseVerdict 解析模型返回的 JSON，兼容 markdown 代码块包裹
func parseVerdict(content string) (*Result, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var res Result
	if err := json.Unmarshal([]byte(clean), &res); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if strings.TrimSpace(res.Label) == "" {
		return nil, fmt.Errorf("verdict missing label: %q", clean)
	}
	return &res, nil
}
