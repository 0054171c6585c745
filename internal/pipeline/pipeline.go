// Package pipeline runs one profile generation end to end: template
// resolution, extraction, quality analysis, synthesis, and assembly.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/profilegen/internal/analyze"
	"github.com/sells-group/profilegen/internal/assemble"
	"github.com/sells-group/profilegen/internal/extract"
	"github.com/sells-group/profilegen/internal/model"
	"github.com/sells-group/profilegen/internal/synth"
	"github.com/sells-group/profilegen/internal/templates"
)

// Generator produces one profile from a validated request. The job
// orchestrator is its only caller in the server path; the CLI calls it
// directly.
type Generator struct {
	engine *extract.Engine
	synth  *synth.Adapter
	log    *zap.Logger
}

// NewGenerator wires the pipeline stages.
func NewGenerator(engine *extract.Engine, adapter *synth.Adapter) *Generator {
	return &Generator{
		engine: engine,
		synth:  adapter,
		log:    zap.L().With(zap.String("component", "pipeline")),
	}
}

// Generate runs the full pipeline. Per-source extraction failures are
// absorbed into the evidence; the only hard failures are template focus
// validation and an assembled profile missing its required fields.
func (g *Generator) Generate(ctx context.Context, req *model.ValidatedRequest) (*model.GenerationResult, error) {
	startedAt := time.Now().UTC()

	res, err := templates.Resolve(req.Template, req.FocusAreas)
	if err != nil {
		return nil, err
	}

	results := g.engine.ExtractAll(ctx, req.Sources)
	evidence := analyze.Aggregate(results)

	g.log.Info("evidence aggregated",
		zap.Int("total_sources", evidence.TotalSources),
		zap.Int("successful", evidence.SuccessfulScrapes),
		zap.Int("failed", evidence.FailedScrapes),
		zap.String("quality", string(evidence.Quality)),
	)

	var out synth.Output
	if evidence.SuccessfulScrapes == 0 && req.CustomText == "" {
		// Nothing to synthesize from; skip the LLM call entirely.
		g.log.Warn("no usable evidence, producing degraded profile")
		out = synth.Output{
			Profile: synth.BuildDegraded(req, evidence),
			Method:  model.ProcessingDegraded,
		}
	} else {
		out = g.synth.Synthesize(ctx, req, res, evidence)
	}

	result, err := assemble.Assemble(req, out, evidence, startedAt)
	if err != nil {
		return nil, err
	}

	g.log.Info("generation complete",
		zap.String("generation_id", result.Metadata.GenerationID),
		zap.String("processing_method", result.Metadata.ProcessingMethod),
		zap.Float64("quality_score", result.Metadata.QualityScore),
		zap.Duration("duration", result.Metadata.Duration),
	)
	return result, nil
}

// AnalyzeSources runs validation, extraction, and aggregation without
// synthesis. Backs the source-analysis endpoint and CLI command.
func (g *Generator) AnalyzeSources(ctx context.Context, urls []string) (analyze.EvidenceBundle, []model.InvalidURL, error) {
	req := model.GenerationRequest{URLs: urls}
	validated, err := req.Validate()
	if err != nil {
		return analyze.EvidenceBundle{}, nil, err
	}

	results := g.engine.ExtractAll(ctx, validated.Sources)
	return analyze.Aggregate(results), validated.SkippedURLs, nil
}
