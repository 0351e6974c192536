package headline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/config"
	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/logger"
)

// 响应体读取上限
const maxBodySize = 8 << 20

// YahooFetcher 从 Yahoo Finance 新闻页抓取标题
type YahooFetcher struct {
	baseURL   string
	userAgent string
	selector  string
	client    *http.Client
	maxBody   int
	log       logrus.FieldLogger
}

// Ensure YahooFetcher implements Fetcher
var _ Fetcher = (*YahooFetcher)(nil)

// NewYahooFetcher 根据配置创建抓取器，选择器非法时返回错误
func NewYahooFetcher(cfg config.FetcherConfig, log logrus.FieldLogger) (*YahooFetcher, error) {
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	selector := cfg.Selector
	if selector == "" {
		selector = config.DefaultSelector
	}
	if _, err := cascadia.ParseGroup(selector); err != nil {
		return nil, fmt.Errorf("invalid headline selector %q: %w", selector, err)
	}

	timeout := cfg.FetchTimeout()
	if timeout <= 0 {
		timeout = config.DefaultTimeout * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	return &YahooFetcher{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: userAgent,
		selector:  selector,
		client:    &http.Client{Timeout: timeout},
		maxBody:   maxBodySize,
		log:       logger.Or(log),
	}, nil
}

// NewsURL 返回股票代码对应的新闻页地址
func (f *YahooFetcher) NewsURL(ticker string) string {
	return fmt.Sprintf("%s/quote/%s/news", f.baseURL, url.PathEscape(normalizeTicker(ticker)))
}

// Fetch 抓取最多 max 条标题，按页面顺序返回。
// 空白标题元素直接跳过且不计入 max，因此可能读取超过 max 个匹配元素。
func (f *YahooFetcher) Fetch(ctx context.Context, ticker string, max int) []string {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		f.log.Errorf("股票代码为空，跳过抓取")
		return []string{}
	}
	if max <= 0 {
		f.log.Debugf("max=%d，跳过抓取 [%s]", max, ticker)
		return []string{}
	}

	pageURL := f.NewsURL(ticker)
	body, err := f.get(ctx, pageURL)
	if err != nil {
		f.log.Errorf("抓取新闻页失败 [%s]: %v", ticker, err)
		return []string{}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		f.log.Errorf("解析新闻页失败 [%s]: %v", ticker, err)
		return []string{}
	}

	headlines := make([]string, 0, max)
	doc.Find(f.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		headlines = append(headlines, text)
		return len(headlines) < max
	})

	if len(headlines) == 0 {
		f.log.Warnf("新闻页未匹配到任何标题 [%s]，页面结构可能已变化 (selector=%q, %s)",
			ticker, f.selector, describePage(body, pageURL))
		return headlines
	}

	f.log.Infof("抓取到 %d 条标题 [%s]", len(headlines), ticker)
	return headlines
}

func (f *YahooFetcher) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	// 添加 User-Agent 避免被简单的反爬虫策略拦截
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, int64(f.maxBody)+1))
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if len(body) > f.maxBody {
		f.log.Debugf("响应体超过 %d 字节，已截断: %s", f.maxBody, pageURL)
		body = body[:f.maxBody]
	}
	return body, nil
}

// describePage 用 readability 提取页面标题，便于排查同意页、验证码页等情况
func describePage(body []byte, pageURL string) string {
	u, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return "page title unavailable"
	}
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = strings.TrimSpace(article.SiteName)
	}
	if title == "" {
		return "page title unavailable"
	}
	return fmt.Sprintf("page title %q", title)
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
