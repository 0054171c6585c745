package analyze

import (
	"fmt"
	"time"

	"github.com/sells-group/profilegen/internal/model"
)

// QualityTier labels the overall evidence quality of a batch.
type QualityTier string

const (
	TierExcellent QualityTier = "excellent"
	TierGood      QualityTier = "good"
	TierPoor      QualityTier = "poor"
)

// Aggregation thresholds. Average content length above RichAvgLength
// counts as rich; below MinAvgLength the batch is too thin to trust.
const (
	RichAvgLength = 2000
	MinAvgLength  = 500
)

// SourceDetail pairs an extraction result with its quality report.
type SourceDetail struct {
	Result model.ExtractionResult
	Report QualityReport
}

// EvidenceBundle is the single immutable input handed to synthesis and
// to the source-analysis endpoint. It carries both the raw evidence and
// the batch-level quality verdict.
type EvidenceBundle struct {
	Sources []SourceDetail

	TotalSources         int
	SuccessfulScrapes    int
	FailedScrapes        int
	TotalContentLength   int
	AverageContentLength float64

	Quality         QualityTier
	Domains         []string
	Recommendations []string
	AnalyzedAt      time.Time
}

// Aggregate folds per-source results into an EvidenceBundle. Pure: the
// same results always produce the same bundle (modulo AnalyzedAt).
func Aggregate(results []model.ExtractionResult) EvidenceBundle {
	bundle := EvidenceBundle{
		Sources:      make([]SourceDetail, 0, len(results)),
		TotalSources: len(results),
		AnalyzedAt:   time.Now().UTC(),
	}

	companyInfoSources := 0
	seenDomains := make(map[string]bool)

	for _, r := range results {
		report := Score(r)
		bundle.Sources = append(bundle.Sources, SourceDetail{Result: r, Report: report})

		if r.URL.Domain != "" && !seenDomains[r.URL.Domain] {
			seenDomains[r.URL.Domain] = true
			bundle.Domains = append(bundle.Domains, r.URL.Domain)
		}

		if r.Succeeded() {
			bundle.SuccessfulScrapes++
			bundle.TotalContentLength += r.ContentLength
			if report.HasCompanyInfo {
				companyInfoSources++
			}
		} else {
			bundle.FailedScrapes++
		}
	}

	if bundle.SuccessfulScrapes > 0 {
		bundle.AverageContentLength = float64(bundle.TotalContentLength) / float64(bundle.SuccessfulScrapes)
	}

	bundle.Quality = classify(bundle, companyInfoSources)
	bundle.Recommendations = recommendations(bundle)
	return bundle
}

// classify applies the tier rules in order; the first match wins.
func classify(b EvidenceBundle, companyInfoSources int) QualityTier {
	if b.TotalSources == 0 || b.SuccessfulScrapes == 0 {
		return TierPoor
	}
	if b.FailedScrapes == 0 && b.AverageContentLength > RichAvgLength && companyInfoSources >= 1 {
		return TierExcellent
	}
	if b.FailedScrapes*2 > b.TotalSources || b.AverageContentLength < MinAvgLength {
		return TierPoor
	}
	return TierGood
}

// recommendations emits operator-facing advice in a fixed priority
// order so identical bundles always produce identical output.
func recommendations(b EvidenceBundle) []string {
	var recs []string

	switch {
	case b.TotalSources == 0:
		recs = append(recs, "No sources provided")
	case b.SuccessfulScrapes == 0:
		recs = append(recs, "No sources could be analyzed; verify the URLs are reachable")
	case b.FailedScrapes == 0:
		recs = append(recs, fmt.Sprintf("All %d sources analyzed successfully", b.TotalSources))
	default:
		recs = append(recs, fmt.Sprintf("%d of %d sources analyzed successfully", b.SuccessfulScrapes, b.TotalSources))
	}

	if b.SuccessfulScrapes > 0 {
		switch {
		case b.AverageContentLength >= RichAvgLength:
			recs = append(recs, "Rich content detected, suitable for a comprehensive profile")
		case b.AverageContentLength >= MinAvgLength:
			recs = append(recs, "Moderate content available; profile depth may vary by section")
		default:
			recs = append(recs, "Limited content extracted; consider adding more detailed sources")
		}
	}

	if b.SuccessfulScrapes > 0 && !b.hasSectionAnywhere(model.SectionLeadershipTeam) {
		recs = append(recs, "No leadership information detected; consider adding a team or about page")
	}
	if b.SuccessfulScrapes > 0 && !b.hasSectionAnywhere(model.SectionContactInfo) {
		recs = append(recs, "No contact information detected; consider adding a contact page")
	}

	return recs
}

func (b EvidenceBundle) hasSectionAnywhere(want model.Section) bool {
	for _, s := range b.Sources {
		if !s.Result.Succeeded() {
			continue
		}
		for _, sec := range s.Report.Sections {
			if sec == want {
				return true
			}
		}
	}
	return false
}
