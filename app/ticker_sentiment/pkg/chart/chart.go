package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/logger"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/model"
)

// ErrNoData 没有可绘制的数据
var ErrNoData = errors.New("no sentiment data to visualize")

// Renderer 把整体情感渲染为图表文件
type Renderer interface {
	Render(ticker string, agg model.Aggregate) (string, error)
}

var labelColors = map[model.Label]drawing.Color{
	model.Positive: drawing.ColorFromHex("2e9e44"),
	model.Negative: drawing.ColorFromHex("d64541"),
	model.Neutral:  drawing.ColorFromHex("9e9e9e"),
}

// PNGRenderer 输出 <TICKER>_sentiment.png 柱状图
type PNGRenderer struct {
	dir  string
	open func(path string) error // 为空时不打开
	log  logrus.FieldLogger
}

var _ Renderer = (*PNGRenderer)(nil)

// NewPNGRenderer 创建渲染器，open 为 true 时渲染后用系统默认程序打开图片
func NewPNGRenderer(dir string, open bool, log logrus.FieldLogger) *PNGRenderer {
	if dir == "" {
		dir = "."
	}
	r := &PNGRenderer{dir: dir, log: logger.Or(log)}
	if open {
		r.open = browser.OpenFile
	}
	return r
}

// FileName 返回图表文件名
func FileName(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker)) + "_sentiment.png"
}

// Render 渲染柱状图并覆盖同名文件
func (r *PNGRenderer) Render(ticker string, agg model.Aggregate) (string, error) {
	var bars []gochart.Value
	maxCount := 0
	for _, label := range model.Labels {
		n := agg.Counts[label]
		if n == 0 {
			continue
		}
		if n > maxCount {
			maxCount = n
		}
		color := labelColors[label]
		bars = append(bars, gochart.Value{
			Label: string(label),
			Value: float64(n),
			Style: gochart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if len(bars) == 0 {
		return "", ErrNoData
	}

	graph := gochart.BarChart{
		Title:      fmt.Sprintf("Sentiment Analysis for %s Headlines", strings.ToUpper(ticker)),
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		Width:      1000,
		Height:     600,
		BarWidth:   120,
		YAxis: gochart.YAxis{
			Name:  "Count",
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount + 1)},
		},
		Bars: bars,
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart directory: %w", err)
	}
	path := filepath.Join(r.dir, FileName(ticker))
	err := writeRendered(path, func(w io.Writer) error {
		return graph.Render(gochart.PNG, w)
	})
	if err != nil {
		return "", err
	}
	r.log.Infof("情感图表已保存: %s", path)

	if r.open != nil {
		if err := r.open(path); err != nil {
			r.log.Warnf("无法打开图表 %s: %v", path, err)
		}
	}
	return path, nil
}

// writeRendered 先渲染到内存，成功后再写文件，渲染失败时保留旧图表
func writeRendered(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart file: %w", err)
	}
	return nil
}
