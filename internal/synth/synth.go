// Package synth turns an evidence bundle into a CompanyProfile via the
// Anthropic messages API, with retry on transient failures and a
// deterministic degraded fallback when synthesis cannot complete.
package synth

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profilegen/internal/analyze"
	"github.com/sells-group/profilegen/internal/cost"
	"github.com/sells-group/profilegen/internal/model"
	"github.com/sells-group/profilegen/internal/resilience"
	"github.com/sells-group/profilegen/internal/templates"
	"github.com/sells-group/profilegen/pkg/anthropic"
)

// Config controls one adapter instance.
type Config struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Retry       resilience.RetryConfig
}

// DefaultConfig returns production settings.
func DefaultConfig() Config {
	return Config{
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   4096,
		Temperature: 0.2,
		Retry:       resilience.DefaultRetryConfig(),
	}
}

// Output is the result of one synthesis, full or degraded.
type Output struct {
	Profile model.CompanyProfile
	Usage   model.TokenUsage
	CostUSD float64
	Model   string
	// Method is ProcessingFull or ProcessingDegraded.
	Method string
}

// Adapter mediates between the pipeline and the LLM client.
type Adapter struct {
	client anthropic.Client
	costs  *cost.Calculator
	cfg    Config
}

// NewAdapter creates an Adapter.
func NewAdapter(client anthropic.Client, costs *cost.Calculator, cfg Config) *Adapter {
	if cfg.Model == "" {
		cfg = DefaultConfig()
	}
	return &Adapter{client: client, costs: costs, cfg: cfg}
}

// Synthesize runs the LLM call with retries and parses the profile.
// Synthesis failure is not fatal: after retries are exhausted, or when
// the response cannot be parsed, a degraded profile built directly from
// the evidence is returned instead. Token usage from failed attempts is
// still accounted.
func (a *Adapter) Synthesize(ctx context.Context, req *model.ValidatedRequest, res templates.Resolution, evidence analyze.EvidenceBundle) Output {
	var usage model.TokenUsage

	prompt := BuildPrompt(req, res, evidence)
	temp := a.cfg.Temperature

	retryCfg := a.cfg.Retry
	retryCfg.OnRetry = resilience.RetryLogger("anthropic", "synthesize_profile")

	start := time.Now()
	resp, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		r, callErr := a.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       a.cfg.Model,
			MaxTokens:   a.cfg.MaxTokens,
			System:      systemPrompt,
			Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
			Temperature: &temp,
		})
		if r != nil {
			usage.Add(model.TokenUsage{
				InputTokens:  r.Usage.InputTokens,
				OutputTokens: r.Usage.OutputTokens,
			})
		}
		return r, callErr
	})

	if err != nil {
		zap.L().Warn("synth: llm call failed, building degraded profile",
			zap.String("model", a.cfg.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return a.degradedOutput(req, evidence, usage)
	}

	profile, parseErr := parseProfile(resp.Text)
	if parseErr != nil {
		zap.L().Warn("synth: unparseable llm response, building degraded profile",
			zap.String("model", a.cfg.Model),
			zap.Error(parseErr),
		)
		return a.degradedOutput(req, evidence, usage)
	}

	zap.L().Info("synth: profile synthesized",
		zap.String("model", resp.Model),
		zap.Int64("input_tokens", usage.InputTokens),
		zap.Int64("output_tokens", usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return Output{
		Profile: profile,
		Usage:   usage,
		CostUSD: a.costs.Tokens(a.cfg.Model, usage.InputTokens, usage.OutputTokens),
		Model:   a.cfg.Model,
		Method:  model.ProcessingFull,
	}
}

func (a *Adapter) degradedOutput(req *model.ValidatedRequest, evidence analyze.EvidenceBundle, usage model.TokenUsage) Output {
	return Output{
		Profile: BuildDegraded(req, evidence),
		Usage:   usage,
		CostUSD: a.costs.Tokens(a.cfg.Model, usage.InputTokens, usage.OutputTokens),
		Model:   a.cfg.Model,
		Method:  model.ProcessingDegraded,
	}
}

// parseProfile decodes the model's JSON output, tolerating markdown
// fences and leading prose around the JSON object.
func parseProfile(text string) (model.CompanyProfile, error) {
	var profile model.CompanyProfile

	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return profile, eris.New("synth: no JSON object in response")
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &profile); err != nil {
		return profile, eris.Wrap(err, "synth: decode profile")
	}
	return profile, nil
}
