package classifier

import (
	"context"
	"math"
	"strings"
)

// 词典分类器输出的原始标签
const (
	lexiconPositive = "POSITIVE"
	lexiconNegative = "NEGATIVE"
	lexiconNeutral  = "NEUTRAL"
)

// 平均权重绝对值超过该阈值才判定为正面或负面
const lexiconThreshold = 0.1

// LexiconClassifier 基于金融词典的离线分类器
type LexiconClassifier struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

var _ Classifier = (*LexiconClassifier)(nil)

// NewLexiconClassifier 创建词典分类器
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{
		positiveWords: map[string]float64{
			// 强正面
			"surge": 1.0, "surges": 1.0, "soar": 1.0, "soars": 1.0, "skyrocket": 1.0, "breakthrough": 1.0,
			"bullish": 0.95, "rally": 0.95, "rallies": 0.95, "boom": 0.95, "record": 0.9,
			"outperform": 0.9, "outperforms": 0.9, "breakout": 0.9,

			// 中等正面
			"beat": 0.85, "beats": 0.85, "exceed": 0.85, "exceeds": 0.85, "upgrade": 0.85, "upgrades": 0.85,
			"optimistic": 0.85, "profit": 0.8, "profits": 0.8, "growth": 0.8, "gain": 0.8, "gains": 0.8,
			"jump": 0.8, "jumps": 0.8, "strong": 0.8, "boost": 0.8, "boosts": 0.8, "win": 0.8, "wins": 0.8,
			"improve": 0.75, "improves": 0.75, "rising": 0.75, "climb": 0.75, "climbs": 0.75,
			"expansion": 0.75, "momentum": 0.75, "upside": 0.75, "recover": 0.7, "recovers": 0.7,
			"rebound": 0.7, "rebounds": 0.7,

			// 弱正面
			"positive": 0.65, "rise": 0.65, "rises": 0.65, "higher": 0.65, "increase": 0.65,
			"better": 0.65, "solid": 0.65, "confident": 0.65, "opportunity": 0.6, "promising": 0.6,
			"buy": 0.6, "resilient": 0.6, "steady": 0.6, "innovative": 0.55, "launch": 0.5,
			"launches": 0.5, "announces": 0.5, "robust": 0.5, "stable": 0.5,
		},
		negativeWords: map[string]float64{
			// 强负面
			"crash": 1.0, "crashes": 1.0, "plunge": 1.0, "plunges": 1.0, "collapse": 1.0,
			"bankruptcy": 0.95, "crisis": 0.95, "plummet": 0.95, "plummets": 0.95,
			"tumble": 0.95, "tumbles": 0.95, "rout": 0.95, "worst": 0.9, "panic": 0.9,

			// 中等负面
			"bearish": 0.85, "downgrade": 0.85, "downgrades": 0.85, "warning": 0.85, "warns": 0.85,
			"lawsuit": 0.85, "probe": 0.8, "miss": 0.8, "misses": 0.8, "loss": 0.8, "losses": 0.8,
			"slump": 0.8, "slumps": 0.8, "decline": 0.8, "declines": 0.8, "underperform": 0.8,
			"fail": 0.8, "fails": 0.8, "struggle": 0.75, "struggles": 0.75, "weak": 0.75,
			"drop": 0.75, "drops": 0.75, "fall": 0.75, "falls": 0.75, "sink": 0.75, "sinks": 0.75,
			"concern": 0.7, "concerns": 0.7, "worry": 0.7, "worries": 0.7, "disappoint": 0.7,
			"disappoints": 0.7, "layoffs": 0.7, "recall": 0.7,

			// 弱负面
			"risk": 0.65, "risks": 0.65, "threat": 0.65, "volatile": 0.65, "uncertainty": 0.65,
			"pressure": 0.6, "lower": 0.6, "cut": 0.6, "cuts": 0.6, "slowdown": 0.6, "sell": 0.6,
			"dip": 0.55, "dips": 0.55, "slip": 0.55, "slips": 0.55, "cautious": 0.55,
			"pullback": 0.5, "headwind": 0.5, "headwinds": 0.5,
		},
	}
}

// Classify 按命中词的平均权重给出标签
func (lc *LexiconClassifier) Classify(_ context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var score float64
	var matches int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?\"'()[]{}:;")

		if val, ok := lc.positiveWords[word]; ok {
			score += val
			matches++
		} else if val, ok := lc.negativeWords[word]; ok {
			score -= val
			matches++
		}
	}
	if matches > 0 {
		score /= float64(matches)
	}

	confidence := math.Min(math.Abs(score), 1)
	switch {
	case score > lexiconThreshold:
		return &Result{Label: lexiconPositive, Score: confidence}, nil
	case score < -lexiconThreshold:
		return &Result{Label: lexiconNegative, Score: confidence}, nil
	default:
		return &Result{Label: lexiconNeutral, Score: 1 - confidence}, nil
	}
}
