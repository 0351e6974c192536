package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/chart"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/classifier/factory"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/config"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/headline"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/logger"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/pipeline"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/report"
)

const defaultTicker = "AAPL"

type options struct {
	confPath string
	max      int
	cron     string
	noChart  bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "ticker_sentiment [TICKER]",
		Short:         "Scrape recent news headlines for a ticker and score their sentiment",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker := defaultTicker
			if len(args) == 1 {
				ticker = args[0]
			}
			return run(cmd.Context(), out, ticker, opts)
		},
	}
	cmd.Flags().StringVar(&opts.confPath, "conf", "configs/config.yaml", "config path, eg: --conf config.yaml")
	cmd.Flags().IntVar(&opts.max, "max", 0, "maximum number of headlines (overrides fetcher.max_headlines)")
	cmd.Flags().StringVar(&opts.cron, "cron", "", "cron expression for repeated runs (overrides schedule)")
	cmd.Flags().BoolVar(&opts.noChart, "no-chart", false, "skip writing the sentiment chart")
	return cmd
}

func run(ctx context.Context, out io.Writer, ticker string, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. 加载配置
	cfg, err := config.LoadConfig(opts.confPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("配置文件不存在 [%s]，使用默认配置", opts.confPath)
		cfg = config.Default()
	} else if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	cfg.ApplyEnv()
	if opts.max > 0 {
		cfg.Fetcher.MaxHeadlines = opts.max
	}
	if opts.cron != "" {
		cfg.Schedule = opts.cron
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Infof("开始情感分析 [%s]", strings.ToUpper(ticker))

	// 3. 初始化分类器，失败则无法继续
	cls, err := factory.NewClassifier(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("情感分类器初始化失败: %v", err)
	}
	logger.Log.Infof("情感分类器初始化成功 (provider=%s)", cfg.Classifier.Provider)

	// 4. 初始化抓取器与引擎
	fetcher, err := headline.NewYahooFetcher(cfg.Fetcher, nil)
	if err != nil {
		logger.Log.Fatalf("抓取器初始化失败: %v", err)
	}

	engineOpts := pipeline.Options{
		MaxHeadlines: cfg.Fetcher.MaxHeadlines,
		FetchDelay:   cfg.Fetcher.FetchDelay(),
	}
	if cfg.ChartEnabled() && !opts.noChart {
		engineOpts.Renderer = chart.NewPNGRenderer(cfg.Chart.Dir, cfg.Chart.Open, nil)
	}
	engine := pipeline.NewEngine(fetcher, cls, engineOpts)

	if cfg.Schedule == "" {
		return runOnce(ctx, out, engine, ticker)
	}

	expr, err := cronexpr.Parse(cfg.Schedule)
	if err != nil {
		logger.Log.Fatalf("无效的 cron 表达式 %q: %v", cfg.Schedule, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runScheduled(ctx, out, engine, ticker, expr)
}

func runOnce(ctx context.Context, out io.Writer, engine *pipeline.Engine, ticker string) error {
	r, err := engine.Run(ctx, ticker)
	if err != nil {
		return fmt.Errorf("run %s: %w", ticker, err)
	}
	report.Print(out, r)
	logger.Log.Infof("情感分析完成，耗时 %.2f 秒", r.Elapsed.Seconds())
	return nil
}

// runScheduled 按 cron 表达式重复运行，直到收到中断信号
func runScheduled(ctx context.Context, out io.Writer, engine *pipeline.Engine, ticker string, expr *cronexpr.Expression) error {
	for {
		next := expr.Next(time.Now())
		if next.IsZero() {
			logger.Log.Warn("cron 表达式没有后续触发时间，退出")
			return nil
		}
		logger.Log.Infof("下一次运行时间: %s", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Log.Info("收到退出信号，停止调度")
			return nil
		case <-timer.C:
		}

		if err := runOnce(ctx, out, engine, ticker); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Log.Errorf("调度运行失败: %v", err)
		}
	}
}
