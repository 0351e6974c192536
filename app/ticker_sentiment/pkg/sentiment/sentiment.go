package sentiment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/classifier"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/logger"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/model"
)

// Analyzer 逐条调用分类器并收集结果
type Analyzer struct {
	classifier classifier.Classifier
	log        logrus.FieldLogger
}

// NewAnalyzer 创建分析器
func NewAnalyzer(c classifier.Classifier, log logrus.FieldLogger) *Analyzer {
	return &Analyzer{classifier: c, log: logger.Or(log)}
}

// Analyze 对每条标题分类一次，失败的标题记录日志后跳过
func (a *Analyzer) Analyze(ctx context.Context, headlines []string) []model.Record {
	if len(headlines) == 0 {
		a.log.Warn("没有需要分析的标题")
		return []model.Record{}
	}

	records := make([]model.Record, 0, len(headlines))
	for _, headline := range headlines {
		res, err := a.classify(ctx, headline)
		if err != nil {
			a.log.Errorf("分析标题失败: %s. Error: %v", headline, err)
			continue
		}
		records = append(records, model.Record{
			Headline: headline,
			Label:    NormalizeLabel(res.Label),
			Score:    res.Score,
		})
	}
	return records
}

func (a *Analyzer) classify(ctx context.Context, headline string) (*classifier.Result, error) {
	res, err := a.classifier.Classify(ctx, headline)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("classifier returned no result")
	}
	if math.IsNaN(res.Score) || res.Score < 0 || res.Score > 1 {
		return nil, fmt.Errorf("score %v out of range [0,1]", res.Score)
	}
	return res, nil
}

// NormalizeLabel 把分类器原始标签归一化为 positive / negative / neutral
func NormalizeLabel(label string) model.Label {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive", "pos":
		return model.Positive
	case "negative", "neg":
		return model.Negative
	default:
		return model.Neutral
	}
}

// Aggregate 计算各标签数量、平均分与整体情感
//
// 正面数多于负面数为 positive，反之为 negative，相等（含全部中性）为 neutral。
func Aggregate(records []model.Record) model.Aggregate {
	if len(records) == 0 {
		return model.DefaultAggregate()
	}

	counts := make(map[model.Label]int, len(model.Labels))
	var sum float64
	for _, r := range records {
		counts[r.Label]++
		sum += r.Score
	}

	overall := model.Neutral
	pos, neg := counts[model.Positive], counts[model.Negative]
	if pos > neg {
		overall = model.Positive
	} else if neg > pos {
		overall = model.Negative
	}

	return model.Aggregate{
		Overall: overall,
		Score:   sum / float64(len(records)),
		Counts:  counts,
	}
}
