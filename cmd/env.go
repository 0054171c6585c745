package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profilegen/internal/cache"
	"github.com/sells-group/profilegen/internal/cost"
	"github.com/sells-group/profilegen/internal/extract"
	"github.com/sells-group/profilegen/internal/health"
	"github.com/sells-group/profilegen/internal/job"
	"github.com/sells-group/profilegen/internal/pipeline"
	"github.com/sells-group/profilegen/internal/resilience"
	"github.com/sells-group/profilegen/internal/synth"
	anthropicpkg "github.com/sells-group/profilegen/pkg/anthropic"
)

// serviceEnv holds everything the serve/generate/analyze commands need.
type serviceEnv struct {
	Generator    *pipeline.Generator
	Orchestrator *job.Orchestrator
	Cache        cache.Cache
	Checker      *health.Checker
	LLM          anthropicpkg.Client
}

// Close releases resources held by the environment.
func (e *serviceEnv) Close() {
	if e.Orchestrator != nil {
		e.Orchestrator.Shutdown()
	}
	if e.Cache != nil {
		_ = e.Cache.Close()
	}
}

// initEnv builds the extraction engine, synthesis adapter, cache, and
// orchestrator from the loaded config. Callers should defer env.Close().
func initEnv(_ context.Context) (*serviceEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("PROFILEGEN_ANTHROPIC_KEY is required")
	}

	strategies := []extract.Strategy{
		extract.NewHTTPStrategy(
			time.Duration(cfg.Extract.HTTPTimeoutSecs)*time.Second,
			cfg.Extract.MinContentLength,
		),
	}
	if cfg.Extract.BrowserFallback {
		strategies = append(strategies, extract.NewBrowserStrategy(
			time.Duration(cfg.Extract.BrowserTimeout)*time.Second,
			cfg.Extract.MinContentLength,
		))
	} else {
		zap.L().Debug("browser fallback disabled")
	}
	engine := extract.NewEngine(cfg.Extract.Workers, strategies...)

	llm := anthropicpkg.NewClient(cfg.Anthropic.Key)
	retryCfg := resilience.DefaultRetryConfig()
	if cfg.Synthesis.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.Synthesis.MaxRetries
	}
	adapter := synth.NewAdapter(llm, cost.NewCalculator(nil), synth.Config{
		Model:       cfg.Anthropic.SonnetModel,
		MaxTokens:   cfg.Synthesis.MaxTokens,
		Temperature: cfg.Synthesis.Temperature,
		Retry:       retryCfg,
	})

	var (
		resultCache cache.Cache
		err         error
	)
	switch cfg.Cache.Backend {
	case "sqlite":
		resultCache, err = cache.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
	default:
		resultCache = cache.NewMemory()
	}

	gen := pipeline.NewGenerator(engine, adapter)
	orch := job.New(gen, resultCache, job.Config{
		MaxConcurrent: cfg.Jobs.MaxConcurrent,
		QueueSize:     cfg.Jobs.QueueSize,
		QueueTimeout:  time.Duration(cfg.Jobs.QueueTimeoutSecs) * time.Second,
		RunTimeout:    time.Duration(cfg.Jobs.RunTimeoutSecs) * time.Second,
		CacheTTL:      time.Duration(cfg.Cache.TTLHours) * time.Hour,
		RetainFor:     time.Duration(cfg.Jobs.RetainHours) * time.Hour,
	})

	checker := health.NewChecker(
		health.CheckFunc{CheckName: "anthropic", Fn: llmCheck(llm, cfg.Anthropic.HaikuModel)},
		health.CheckFunc{CheckName: "extraction", Fn: extractionCheck()},
	)

	return &serviceEnv{
		Generator:    gen,
		Orchestrator: orch,
		Cache:        resultCache,
		Checker:      checker,
		LLM:          llm,
	}, nil
}

// llmCheck probes API reachability with a minimal one-token request.
func llmCheck(llm anthropicpkg.Client, model string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := llm.CreateMessage(ctx, anthropicpkg.MessageRequest{
			Model:     model,
			MaxTokens: 1,
			Messages:  []anthropicpkg.Message{{Role: "user", Content: "ping"}},
		})
		return err
	}
}

// extractionCheck verifies outbound HTTP works at all.
func extractionCheck() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		strategy := extract.NewHTTPStrategy(5*time.Second, 1)
		_, err := strategy.Probe(ctx, "https://example.com")
		return err
	}
}
