package headline

import "context"

// Fetcher 抓取指定股票代码的新闻标题
//
// 抓取失败不会返回错误：实现方负责记录日志并返回空列表，
// 以便后续的情感分析在数据不全时仍能继续。
type Fetcher interface {
	Fetch(ctx context.Context, ticker string, max int) []string
}
