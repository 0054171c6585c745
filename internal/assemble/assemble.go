// Package assemble finalizes a synthesized profile: required-field
// validation, length trimming, quality scoring, and metadata attachment.
package assemble

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/profilegen/internal/analyze"
	"github.com/sells-group/profilegen/internal/apperr"
	"github.com/sells-group/profilegen/internal/model"
	"github.com/sells-group/profilegen/internal/synth"
)

// tierScore maps the batch quality tier into the evidence component of
// the quality score.
var tierScore = map[analyze.QualityTier]float64{
	analyze.TierExcellent: 1.0,
	analyze.TierGood:      0.7,
	analyze.TierPoor:      0.3,
}

// Quality score blend weights.
const (
	evidenceWeight     = 0.6
	completenessWeight = 0.4
	degradedScoreCap   = 0.4
)

// NewGenerationID mints an identifier for one generation run.
func NewGenerationID(now time.Time) string {
	return fmt.Sprintf("gen_%d_%s", now.Unix(), uuid.NewString()[:8])
}

// Assemble validates the synthesized profile and produces the final
// GenerationResult. A profile missing its required fields is an internal
// error: the caller gets no partial profile.
func Assemble(req *model.ValidatedRequest, out synth.Output, evidence analyze.EvidenceBundle, startedAt time.Time) (*model.GenerationResult, error) {
	profile := out.Profile

	if strings.TrimSpace(profile.BasicInfo.Name) == "" || strings.TrimSpace(profile.BasicInfo.Overview) == "" {
		return nil, apperr.New(apperr.KindInternal,
			"synthesized profile is missing required fields").WithDetails(map[string]any{
			"missing_name":     strings.TrimSpace(profile.BasicInfo.Name) == "",
			"missing_overview": strings.TrimSpace(profile.BasicInfo.Overview) == "",
		})
	}

	trimProfile(&profile, req.MaxContentLength)

	completedAt := time.Now().UTC()
	result := &model.GenerationResult{
		Profile: profile,
		Metadata: model.GenerationMetadata{
			GenerationID:     NewGenerationID(startedAt),
			Duration:         completedAt.Sub(startedAt),
			SourcesProcessed: evidence.SuccessfulScrapes,
			SkippedURLs:      req.SkippedURLs,
			Model:            out.Model,
			QualityScore:     qualityScore(profile, evidence, out.Method),
			TokenUsage:       out.Usage,
			CostUSD:          out.CostUSD,
			ProcessingMethod: out.Method,
			CompletedAt:      completedAt,
		},
	}
	return result, nil
}

// qualityScore blends the evidence tier with schema completeness and
// clamps to [0,1]. Degraded profiles are capped low regardless of
// evidence quality.
func qualityScore(p model.CompanyProfile, evidence analyze.EvidenceBundle, method string) float64 {
	score := evidenceWeight*tierScore[evidence.Quality] + completenessWeight*completeness(p)
	if method == model.ProcessingDegraded {
		score = math.Min(score, degradedScoreCap)
	}
	return math.Max(0, math.Min(1, score))
}

// completeness is the fraction of optional profile sections populated.
func completeness(p model.CompanyProfile) float64 {
	sections := []bool{
		p.BasicInfo.Industry != "",
		p.BasicInfo.Founded != "",
		p.BasicInfo.Headquarters != "",
		len(p.ProductsServices) > 0,
		len(p.Leadership) > 0,
		len(p.Technologies) > 0,
		p.Contact != (model.ContactInfo{}),
		len(p.Values) > 0,
		len(p.Achievements) > 0,
		p.MarketPosition != "",
		len(p.RecentNews) > 0,
		p.Financials != nil,
	}
	populated := 0
	for _, ok := range sections {
		if ok {
			populated++
		}
	}
	return float64(populated) / float64(len(sections))
}

// trimProfile caps free-text fields at the request's max content length.
// Structured list entries keep their identity fields untouched; only
// long prose is cut.
func trimProfile(p *model.CompanyProfile, limit int) {
	if limit <= 0 {
		limit = model.DefaultMaxContentLen
	}

	p.BasicInfo.Overview = trim(p.BasicInfo.Overview, limit)
	p.MarketPosition = trim(p.MarketPosition, limit)
	for i := range p.ProductsServices {
		p.ProductsServices[i].Description = trim(p.ProductsServices[i].Description, limit)
	}
	for i := range p.Leadership {
		p.Leadership[i].Bio = trim(p.Leadership[i].Bio, limit)
	}
	for i := range p.RecentNews {
		p.RecentNews[i] = trim(p.RecentNews[i], limit)
	}
}

// trim cuts text at limit, backing up to a word boundary when one is
// close enough.
func trim(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndex(cut, " "); idx > limit*3/4 {
		cut = cut[:idx]
	}
	return cut
}
