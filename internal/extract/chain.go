package extract

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/profilegen/internal/analyze"
	"github.com/sells-group/profilegen/internal/model"
)

// DefaultWorkers bounds concurrent extractions within one request.
const DefaultWorkers = 5

// Engine tries strategies in priority order for each URL: the first
// strategy that yields usable content wins, and after the primary fails
// the engine falls back at most once. Failure never escapes the engine;
// it is recorded on the ExtractionResult.
type Engine struct {
	strategies []Strategy
	workers    int
}

// NewEngine creates an Engine. Strategies are tried in the given order.
func NewEngine(workers int, strategies ...Strategy) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{strategies: strategies, workers: workers}
}

// Extract runs the strategy chain for a single URL. Always returns a
// result; on total failure the result carries the last failure reason.
func (e *Engine) Extract(ctx context.Context, src model.SourceURL) model.ExtractionResult {
	start := time.Now()
	var lastErr error
	lastStrategy := model.StrategyLightweight

	// At most one fallback: the primary plus one heavier strategy.
	tried := 0
	for _, s := range e.strategies {
		if !s.Supports(src) {
			continue
		}
		if tried >= 2 {
			break
		}
		tried++
		lastStrategy = s.Name()

		result, err := s.Extract(ctx, src)
		if err == nil && result != nil {
			result.Sections = analyze.DetectSections(result.Content)
			zap.L().Debug("extract: strategy succeeded",
				zap.String("strategy", string(s.Name())),
				zap.String("url", src.Normalized),
				zap.Int("content_length", result.ContentLength),
			)
			return *result
		}
		lastErr = err
		zap.L().Debug("extract: strategy failed, trying next",
			zap.String("strategy", string(s.Name())),
			zap.String("url", src.Normalized),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	reason := model.FailureEmptyContent
	if lastErr != nil {
		reason = reasonOf(lastErr)
	}
	return model.ExtractionResult{
		URL:           src,
		Status:        model.ExtractionFailed,
		Latency:       time.Since(start),
		Strategy:      lastStrategy,
		FailureReason: reason,
	}
}

// ExtractAll fans out across the URLs of one request with a bounded
// worker limit. A slow or hung source cannot stall the others beyond its
// own per-attempt timeouts; partial results are a normal outcome. The
// returned slice preserves input order.
func (e *Engine) ExtractAll(ctx context.Context, sources []model.SourceURL) []model.ExtractionResult {
	results := make([]model.ExtractionResult, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, src := range sources {
		g.Go(func() error {
			results[i] = e.Extract(gCtx, src)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
		}
	}
	zap.L().Info("extract: batch complete",
		zap.Int("sources", len(sources)),
		zap.Int("succeeded", succeeded),
	)

	return results
}
