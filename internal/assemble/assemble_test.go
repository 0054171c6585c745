package assemble

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profilegen/internal/analyze"
	"github.com/sells-group/profilegen/internal/apperr"
	"github.com/sells-group/profilegen/internal/model"
	"github.com/sells-group/profilegen/internal/synth"
)

func testRequest(t *testing.T, maxLen int) *model.ValidatedRequest {
	t.Helper()
	v, err := model.GenerationRequest{
		URLs:             []string{"https://acme.com"},
		MaxContentLength: maxLen,
	}.Validate()
	require.NoError(t, err)
	return v
}

func richEvidence() analyze.EvidenceBundle {
	content := "About us: Acme builds widgets. Email info@acme.com. © Acme Inc. " +
		strings.Repeat("Industrial widget platforms for enterprise customers. ", 60)
	return analyze.Aggregate([]model.ExtractionResult{{
		URL:           model.SourceURL{Raw: "https://acme.com", Normalized: "https://acme.com", Domain: "acme.com"},
		Status:        model.ExtractionSuccess,
		Content:       content,
		ContentLength: len(content),
	}})
}

func fullOutput() synth.Output {
	return synth.Output{
		Profile: model.CompanyProfile{
			BasicInfo: model.BasicInfo{
				Name:     "Acme Corp",
				Overview: "Acme builds widgets.",
				Industry: "Manufacturing",
			},
			ProductsServices: []model.ProductService{{Name: "Widget Platform"}},
			Leadership:       []model.LeadershipMember{{Name: "Jane Doe", Position: "CEO"}},
			MarketPosition:   "Market leader",
		},
		Usage:   model.TokenUsage{InputTokens: 1000, OutputTokens: 200},
		CostUSD: 0.006,
		Model:   "claude-sonnet-4-5-20250929",
		Method:  model.ProcessingFull,
	}
}

func TestAssembleAttachesMetadata(t *testing.T) {
	startedAt := time.Now().UTC().Add(-2 * time.Second)
	result, err := Assemble(testRequest(t, 0), fullOutput(), richEvidence(), startedAt)
	require.NoError(t, err)

	meta := result.Metadata
	assert.True(t, strings.HasPrefix(meta.GenerationID, "gen_"))
	assert.Equal(t, 1, meta.SourcesProcessed)
	assert.Equal(t, model.ProcessingFull, meta.ProcessingMethod)
	assert.Equal(t, "claude-sonnet-4-5-20250929", meta.Model)
	assert.Equal(t, int64(1000), meta.TokenUsage.InputTokens)
	assert.GreaterOrEqual(t, meta.Duration, 2*time.Second)
	assert.False(t, meta.CacheHit)
}

func TestAssembleRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.CompanyProfile)
		expected string
	}{
		{name: "missing name", mutate: func(p *model.CompanyProfile) { p.BasicInfo.Name = "" }},
		{name: "whitespace name", mutate: func(p *model.CompanyProfile) { p.BasicInfo.Name = "   " }},
		{name: "missing overview", mutate: func(p *model.CompanyProfile) { p.BasicInfo.Overview = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := fullOutput()
			tt.mutate(&out.Profile)

			_, err := Assemble(testRequest(t, 0), out, richEvidence(), time.Now())
			require.Error(t, err)
			assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
		})
	}
}

func TestAssembleTrimsLongFields(t *testing.T) {
	out := fullOutput()
	out.Profile.BasicInfo.Overview = strings.Repeat("overview text ", 100)
	out.Profile.MarketPosition = strings.Repeat("position text ", 100)

	result, err := Assemble(testRequest(t, 200), out, richEvidence(), time.Now())
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Profile.BasicInfo.Overview), 200)
	assert.LessOrEqual(t, len(result.Profile.MarketPosition), 200)
}

func TestQualityScoreWithinBounds(t *testing.T) {
	result, err := Assemble(testRequest(t, 0), fullOutput(), richEvidence(), time.Now())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Metadata.QualityScore, 0.0)
	assert.LessOrEqual(t, result.Metadata.QualityScore, 1.0)
}

func TestQualityScoreDegradedCapped(t *testing.T) {
	out := fullOutput()
	out.Method = model.ProcessingDegraded

	result, err := Assemble(testRequest(t, 0), out, richEvidence(), time.Now())
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Metadata.QualityScore, degradedScoreCap)
}

func TestQualityScoreRewardsCompleteness(t *testing.T) {
	sparse := fullOutput()
	sparse.Profile.ProductsServices = nil
	sparse.Profile.Leadership = nil
	sparse.Profile.MarketPosition = ""
	sparse.Profile.BasicInfo.Industry = ""

	full, err := Assemble(testRequest(t, 0), fullOutput(), richEvidence(), time.Now())
	require.NoError(t, err)
	bare, err2 := Assemble(testRequest(t, 0), sparse, richEvidence(), time.Now())
	require.NoError(t, err2)

	assert.Greater(t, full.Metadata.QualityScore, bare.Metadata.QualityScore)
}

func TestNewGenerationIDFormat(t *testing.T) {
	id := NewGenerationID(time.Now())
	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "gen", parts[0])
	assert.Len(t, parts[2], 8)
}
