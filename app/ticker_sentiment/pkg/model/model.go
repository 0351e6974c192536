package model

import "time"

// Label 归一化后的情感标签
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Labels 固定的标签展示顺序
var Labels = []Label{Positive, Negative, Neutral}

// DefaultScore 无任何分类结果时的平均分
const DefaultScore = 0.5

// Record 单条标题的情感分析结果
type Record struct {
	Headline string  `json:"headline"`
	Label    Label   `json:"sentiment"`
	Score    float64 `json:"score"` // 分类器置信度，取值 [0,1]
}

// Aggregate 一组标题的整体情感
type Aggregate struct {
	Overall Label         `json:"overall"`
	Score   float64       `json:"score"`
	Counts  map[Label]int `json:"counts,omitempty"`
}

// DefaultAggregate 没有可用结果时的默认整体情感
func DefaultAggregate() Aggregate {
	return Aggregate{Overall: Neutral, Score: DefaultScore, Counts: map[Label]int{}}
}

// Report 一次运行的完整结果
type Report struct {
	Ticker    string
	Headlines []string
	Records   []Record
	Aggregate Aggregate
	ChartPath string // 未生成图表时为空
	Elapsed   time.Duration
}
