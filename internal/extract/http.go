package extract

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sells-group/profilegen/internal/model"
)

const (
	userAgent    = "Mozilla/5.0 (compatible; ProfileGenBot/1.0)"
	maxBodyBytes = 1 << 20 // 1 MiB
)

// HTTPStrategy is the lightweight extraction path: a direct fetch with
// block detection and HTML-to-text conversion. No JavaScript execution.
type HTTPStrategy struct {
	client     *http.Client
	timeout    time.Duration
	minContent int
}

// NewHTTPStrategy creates the lightweight strategy with its per-attempt
// timeout and minimum usable content length.
func NewHTTPStrategy(timeout time.Duration, minContent int) *HTTPStrategy {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if minContent <= 0 {
		minContent = DefaultMinContentLength
	}
	return &HTTPStrategy{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		timeout:    timeout,
		minContent: minContent,
	}
}

// Probe checks basic outbound reachability without extracting anything.
// Used by the health checker.
func (s *HTTPStrategy) Probe(ctx context.Context, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (s *HTTPStrategy) Name() model.ExtractionStrategy { return model.StrategyLightweight }
func (s *HTTPStrategy) Supports(_ model.SourceURL) bool { return true }

// Extract fetches the URL and converts it to plaintext. Returns a typed
// Failure on timeout, block, HTTP error, or content below the usable
// threshold, so the chain can decide to fall back.
func (s *HTTPStrategy) Extract(ctx context.Context, src model.SourceURL) (*model.ExtractionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Normalized, nil)
	if err != nil {
		return nil, &Failure{Reason: model.FailureEmptyContent, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, failTimeout(err)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, failTimeout(err)
		}
		return nil, &Failure{Reason: model.FailureEmptyContent, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Failure{Reason: model.FailureEmptyContent, Err: err}
	}

	if blocked, _ := DetectBlock(resp, body); blocked {
		return nil, failBlocked()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failHTTP(resp.StatusCode)
	}
	if len(body) == 0 {
		return nil, failEmpty()
	}

	title, text, err := htmlToText(string(body))
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
		Strategy:      model.StrategyLightweight,
	}, nil
}
