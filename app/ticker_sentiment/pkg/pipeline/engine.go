package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/chart"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/classifier"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/headline"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/logger"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/model"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/sentiment"
)

// Engine 核心处理引擎：抓取 -> 分类 -> 汇总 -> 图表
type Engine struct {
	fetcher      headline.Fetcher
	analyzer     *sentiment.Analyzer
	renderer     chart.Renderer
	limiter      *rate.Limiter
	maxHeadlines int
	log          logrus.FieldLogger
}

// Options 引擎选项
type Options struct {
	MaxHeadlines int
	FetchDelay   time.Duration  // 两次抓取之间的最小间隔，0 表示不限制
	Renderer     chart.Renderer // 为空时不输出图表
	Logger       logrus.FieldLogger
}

// NewEngine 创建引擎实例
func NewEngine(f headline.Fetcher, c classifier.Classifier, opts Options) *Engine {
	log := logger.Or(opts.Logger)

	limit := rate.Inf
	if opts.FetchDelay > 0 {
		limit = rate.Every(opts.FetchDelay)
	}

	return &Engine{
		fetcher:      f,
		analyzer:     sentiment.NewAnalyzer(c, log),
		renderer:     opts.Renderer,
		limiter:      rate.NewLimiter(limit, 1),
		maxHeadlines: opts.MaxHeadlines,
		log:          log,
	}
}

// Run 对单个股票代码执行一次完整分析，仅在 ctx 取消时返回错误
func (e *Engine) Run(ctx context.Context, ticker string) (*model.Report, error) {
	start := time.Now()
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	report := &model.Report{Ticker: ticker, Aggregate: model.DefaultAggregate(), Records: []model.Record{}}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for fetch slot: %w", err)
	}

	// 1. 抓取标题
	e.log.Infof("开始抓取标题 [%s]", ticker)
	report.Headlines = e.fetcher.Fetch(ctx, ticker, e.maxHeadlines)
	if len(report.Headlines) == 0 {
		e.log.Warnf("未找到任何标题 [%s]", ticker)
		report.Elapsed = time.Since(start)
		return report, ctx.Err()
	}

	// 2. 逐条分类
	e.log.Infof("正在分析 %d 条标题的情感 [%s]", len(report.Headlines), ticker)
	report.Records = e.analyzer.Analyze(ctx, report.Headlines)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. 汇总
	report.Aggregate = sentiment.Aggregate(report.Records)
	e.log.Infof("整体情感 [%s]: %s (Score: %.2f)", ticker, report.Aggregate.Overall, report.Aggregate.Score)

	// 4. 图表
	if e.renderer != nil {
		if len(report.Records) == 0 {
			e.log.Warn("没有可绘制的数据")
		} else if path, err := e.renderer.Render(ticker, report.Aggregate); err != nil {
			e.log.Errorf("生成图表失败 [%s]: %v", ticker, err)
		} else {
			report.ChartPath = path
		}
	}

	report.Elapsed = time.Since(start)
	return report, nil
}
