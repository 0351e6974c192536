package headline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/iWorld-y/ticker_sentiment/app/ticker_sentiment/pkg/config"
)

const newsPage = `<!DOCTYPE html>
<html><head><title>Apple Inc. (AAPL) Latest Stock News</title></head>
<body>
  <h1>Apple Inc.</h1>
  <ul>
    <li><h3>  Apple beats earnings  </h3></li>
    <li><h3>Apple stock tumbles</h3></li>
    <li><h3>   </h3></li>
    <li><h3>Apple announces new product</h3></li>
    <li><h2>Not a headline</h2></li>
    <li><h3>Apple faces EU probe</h3></li>
  </ul>
</body></html>`

func newTestFetcher(t *testing.T, baseURL string, selector string) (*YahooFetcher, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	cfg := config.Default().Fetcher
	cfg.BaseURL = baseURL
	if selector != "" {
		cfg.Selector = selector
	}
	f, err := NewYahooFetcher(cfg, log)
	if err != nil {
		t.Fatalf("NewYahooFetcher() error = %v", err)
	}
	return f, hook
}

type seenRequest struct {
	path      string
	userAgent string
}

func serve(t *testing.T, status int, body string) (*httptest.Server, *seenRequest) {
	t.Helper()
	got := &seenRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.userAgent = r.Header.Get("User-Agent")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestYahooFetcher_Fetch(t *testing.T) {
	srv, req := serve(t, http.StatusOK, newsPage)
	f, _ := newTestFetcher(t, srv.URL, "")

	got := f.Fetch(context.Background(), " aapl ", 10)
	want := []string{"Apple beats earnings", "Apple stock tumbles", "Apple announces new product", "Apple faces EU probe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fetch() = %q, want %q", got, want)
	}
	if req.path != "/quote/AAPL/news" {
		t.Errorf("path = %q, want /quote/AAPL/news", req.path)
	}
	if !strings.HasPrefix(req.userAgent, "Mozilla/5.0") {
		t.Errorf("User-Agent = %q", req.userAgent)
	}
}

func TestYahooFetcher_FetchRespectsMax(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, newsPage)
	f, _ := newTestFetcher(t, srv.URL, "")

	got := f.Fetch(context.Background(), "AAPL", 2)
	want := []string{"Apple beats earnings", "Apple stock tumbles"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fetch() = %q, want %q", got, want)
	}

	if got := f.Fetch(context.Background(), "AAPL", 0); len(got) != 0 {
		t.Errorf("Fetch(max=0) = %q, want empty", got)
	}
}

func TestYahooFetcher_BlankHeadingsDoNotCount(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `<html><body><h3>  </h3><h3>Second</h3><h3>Third</h3></body></html>`)
	f, _ := newTestFetcher(t, srv.URL, "")

	got := f.Fetch(context.Background(), "AAPL", 1)
	if want := []string{"Second"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Fetch(max=1) = %q, want %q", got, want)
	}
}

func TestYahooFetcher_OversizedBodyIsTruncated(t *testing.T) {
	page := "<html><body><h3>Apple beats earnings</h3>" + strings.Repeat("<p>filler</p>", 100) + "</body></html>"
	srv, _ := serve(t, http.StatusOK, page)
	f, hook := newTestFetcher(t, srv.URL, "")
	f.maxBody = 128

	got := f.Fetch(context.Background(), "AAPL", 5)
	if want := []string{"Apple beats earnings"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Fetch() = %q, want %q", got, want)
	}

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel && strings.Contains(e.Message, "截断") {
			logged = true
		}
	}
	if !logged {
		t.Error("expected a debug entry for the truncated body")
	}
}

func TestYahooFetcher_CustomSelector(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, newsPage)
	f, _ := newTestFetcher(t, srv.URL, "li h2")

	got := f.Fetch(context.Background(), "AAPL", 5)
	if !reflect.DeepEqual(got, []string{"Not a headline"}) {
		t.Errorf("Fetch() = %q", got)
	}
}

func TestYahooFetcher_NonOKStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusNoContent} {
		srv, _ := serve(t, status, newsPage)
		f, hook := newTestFetcher(t, srv.URL, "")

		got := f.Fetch(context.Background(), "AAPL", 10)
		if got == nil || len(got) != 0 {
			t.Errorf("status %d: Fetch() = %#v, want empty slice", status, got)
		}
		if e := hook.LastEntry(); e == nil || e.Level != logrus.ErrorLevel {
			t.Errorf("status %d: expected an error log, got %v", status, e)
		}
	}
}

func TestYahooFetcher_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	f, hook := newTestFetcher(t, baseURL, "")
	got := f.Fetch(context.Background(), "AAPL", 10)
	if got == nil || len(got) != 0 {
		t.Errorf("Fetch() = %#v, want empty slice", got)
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.ErrorLevel {
		t.Errorf("expected an error log, got %v", e)
	}
}

func TestYahooFetcher_NoHeadlinesWarns(t *testing.T) {
	page := `<html><head><title>Before you continue to Yahoo</title></head>
<body><form><p>We use cookies and similar technologies to provide our services.</p>
<button>Accept all</button></form></body></html>`
	srv, _ := serve(t, http.StatusOK, page)
	f, hook := newTestFetcher(t, srv.URL, "")

	got := f.Fetch(context.Background(), "AAPL", 10)
	if got == nil || len(got) != 0 {
		t.Errorf("Fetch() = %#v, want empty slice", got)
	}
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %v", e)
	}
	if !strings.Contains(e.Message, "AAPL") {
		t.Errorf("warning = %q, want ticker in message", e.Message)
	}
}

func TestNewYahooFetcher_InvalidSelector(t *testing.T) {
	cfg := config.Default().Fetcher
	cfg.Selector = "h3[["
	if _, err := NewYahooFetcher(cfg, nil); err == nil {
		t.Error("NewYahooFetcher() error = nil, want invalid selector error")
	}
}

func TestYahooFetcher_NewsURL(t *testing.T) {
	f, _ := newTestFetcher(t, "https://finance.yahoo.com/", "")
	if got := f.NewsURL("brk.b"); got != "https://finance.yahoo.com/quote/BRK.B/news" {
		t.Errorf("NewsURL() = %q", got)
	}
}
