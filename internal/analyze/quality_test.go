package analyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/profilegen/internal/model"
)

func successResult(url, content string) model.ExtractionResult {
	return model.ExtractionResult{
		URL:           model.SourceURL{Raw: url, Normalized: url, Domain: domainOf(url)},
		Status:        model.ExtractionSuccess,
		Content:       content,
		ContentLength: len(content),
		Strategy:      model.StrategyLightweight,
	}
}

func failedResult(url, reason string) model.ExtractionResult {
	return model.ExtractionResult{
		URL:           model.SourceURL{Raw: url, Normalized: url, Domain: domainOf(url)},
		Status:        model.ExtractionFailed,
		FailureReason: reason,
		Strategy:      model.StrategyLightweight,
	}
}

func domainOf(url string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}

func TestRichnessMonotonicWithDiminishingReturns(t *testing.T) {
	assert.Equal(t, 0.0, Richness(0))
	assert.Equal(t, 0.0, Richness(-5))

	lengths := []int{100, 500, 2000, SaturationLength, SaturationLength * 2}
	prev := 0.0
	for _, n := range lengths {
		r := Richness(n)
		assert.GreaterOrEqual(t, r, prev, "richness must not decrease at length %d", n)
		assert.LessOrEqual(t, r, 1.0)
		prev = r
	}

	assert.Equal(t, 1.0, Richness(SaturationLength))
	assert.Equal(t, 1.0, Richness(SaturationLength*10))

	// Doubling short content gains more than doubling long content.
	shortGain := Richness(1000) - Richness(500)
	longGain := Richness(5000) - Richness(4500)
	assert.Greater(t, shortGain, longGain)
}

func TestHasCompanyInfo(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{
			name:    "contact plus organizational",
			content: "About us: we build widgets. Reach us at info@acme.com for details.",
			want:    true,
		},
		{
			name:    "organizational plus structured",
			content: "Our mission is simple. © 2025 Acme Inc. All rights reserved.",
			want:    true,
		},
		{
			name:    "single signal insufficient",
			content: "Contact: hello@acme.com",
			want:    false,
		},
		{
			name:    "no signals",
			content: "Lorem ipsum dolor sit amet.",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasCompanyInfo(tt.content))
		})
	}
}

func TestDetectSections(t *testing.T) {
	content := `About our company: founded in 2010.
Our products include the Widget Platform with flexible pricing.
Leadership: Jane Doe, CEO.
Contact us at hq@acme.com.
Press release: new funding announcement.`

	sections := DetectSections(content)
	assert.Equal(t, []model.Section{
		model.SectionBasicInfo,
		model.SectionProductsServices,
		model.SectionLeadershipTeam,
		model.SectionContactInfo,
		model.SectionCompanyUpdates,
	}, sections)
}

func TestDetectSectionsEmailOnlyContact(t *testing.T) {
	sections := DetectSections("Write to support@acme.io anytime.")
	assert.Contains(t, sections, model.SectionContactInfo)
}

func TestDetectSectionsEmpty(t *testing.T) {
	assert.Nil(t, DetectSections(""))
}

func TestScoreFailedResult(t *testing.T) {
	report := Score(failedResult("https://a.com", model.FailureTimeout))
	assert.Equal(t, 0.0, report.Accessibility)
	assert.Equal(t, 0.0, report.Richness)
	assert.False(t, report.HasCompanyInfo)
}

func TestScoreSuccessfulResult(t *testing.T) {
	content := "About us: our mission is widgets. Email info@acme.com. © Acme Inc."
	report := Score(successResult("https://acme.com", content))

	assert.Equal(t, 1.0, report.Accessibility)
	assert.Greater(t, report.Richness, 0.0)
	assert.True(t, report.HasCompanyInfo)
	assert.NotEmpty(t, report.Sections)
}
