package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/model"
)

// Print 输出控制台报告：整体情感、平均分、标签分布、逐条明细
func Print(w io.Writer, r *model.Report) {
	agg := r.Aggregate

	fmt.Fprintf(w, "\nSentiment Analysis Results for %s:\n", r.Ticker)
	fmt.Fprintf(w, "Overall Sentiment: %s\n", agg.Overall)
	fmt.Fprintf(w, "Average Score: %.2f\n", agg.Score)

	if len(agg.Counts) > 0 {
		fmt.Fprintln(w, "\nSentiment Distribution:")
		for _, label := range model.Labels {
			if n, ok := agg.Counts[label]; ok {
				fmt.Fprintf(w, "  %s: %d\n", capitalize(string(label)), n)
			}
		}
	}

	fmt.Fprintln(w, "\nHeadline Sentiment Details:")
	if len(r.Records) == 0 {
		fmt.Fprintln(w, "  (no headlines analyzed)")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Headline", "Sentiment", "Score"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, rec := range r.Records {
		table.Append([]string{
			fmt.Sprint(i),
			rec.Headline,
			string(rec.Label),
			fmt.Sprintf("%.4f", rec.Score),
		})
	}
	table.Render()

	if r.ChartPath != "" {
		fmt.Fprintf(w, "\nChart saved to %s\n", r.ChartPath)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
