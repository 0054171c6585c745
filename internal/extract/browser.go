package extract

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/sells-group/profilegen/internal/model"
)

// BrowserStrategy is the heavyweight fallback: renders the page in a
// headless Chrome session so JavaScript-built content becomes visible.
// Each attempt gets an isolated browser context that is torn down on
// completion or error.
type BrowserStrategy struct {
	timeout    time.Duration
	minContent int
	settleWait time.Duration
}

// NewBrowserStrategy creates the browser strategy with its own, longer
// per-attempt timeout.
func NewBrowserStrategy(timeout time.Duration, minContent int) *BrowserStrategy {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if minContent <= 0 {
		minContent = DefaultMinContentLength
	}
	return &BrowserStrategy{
		timeout:    timeout,
		minContent: minContent,
		settleWait: 2 * time.Second,
	}
}

func (s *BrowserStrategy) Name() model.ExtractionStrategy  { return model.StrategyBrowser }
func (s *BrowserStrategy) Supports(_ model.SourceURL) bool { return true }

// Extract renders the page and extracts text from the settled DOM.
func (s *BrowserStrategy) Extract(ctx context.Context, src model.SourceURL) (*model.ExtractionResult, error) {
	start := time.Now()

	html, err := s.render(ctx, src.Normalized)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, failTimeout(err)
		}
		return nil, &Failure{Reason: model.FailureEmptyContent, Err: err}
	}

	title, text, err := htmlToText(html)
	if err != nil {
		return nil, &Failure{Reason: model.FailureEmptyContent, Err: err}
	}
	if len(text) < s.minContent {
		return nil, failEmpty()
	}

	return &model.ExtractionResult{
		URL:           src,
		Status:        model.ExtractionSuccess,
		Title:         title,
		Content:       text,
		ContentLength: len(text),
		Latency:       time.Since(start),
		Strategy:      model.StrategyBrowser,
	}, nil
}

// render spawns an isolated headless session, navigates, waits for the
// page to settle, and returns the rendered HTML. All chromedp contexts
// are cancelled on return, which kills the session.
func (s *BrowserStrategy) render(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, s.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(s.settleWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
