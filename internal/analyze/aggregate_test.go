package analyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profilegen/internal/model"
)

// richCompanyContent is long enough to clear the rich-average threshold
// and carries company-info signals.
func richCompanyContent() string {
	return "About us: our mission is widgets. Email info@acme.com. © Acme Inc. " +
		strings.Repeat("Acme builds industrial widget platforms for enterprise customers. ", 60)
}

func TestAggregateExcellent(t *testing.T) {
	b := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", richCompanyContent()),
		successResult("https://acme.com/about", richCompanyContent()),
	})

	assert.Equal(t, TierExcellent, b.Quality)
	assert.Equal(t, 2, b.SuccessfulScrapes)
	assert.Equal(t, 0, b.FailedScrapes)
	assert.Greater(t, b.AverageContentLength, float64(RichAvgLength))
}

func TestAggregatePoorWhenMostFail(t *testing.T) {
	b := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", richCompanyContent()),
		failedResult("https://a.com", model.FailureTimeout),
		failedResult("https://b.com", "http_error:403"),
	})

	assert.Equal(t, TierPoor, b.Quality)
}

func TestAggregatePoorWhenContentThin(t *testing.T) {
	b := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", "tiny page"),
		successResult("https://acme.com/about", "another tiny page"),
	})

	assert.Equal(t, TierPoor, b.Quality)
}

func TestAggregateGoodInBetween(t *testing.T) {
	moderate := strings.Repeat("Moderate content about the company. ", 30)
	b := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", moderate),
		successResult("https://acme.com/about", moderate),
		failedResult("https://c.com", model.FailureBlocked),
	})

	assert.Equal(t, TierGood, b.Quality)
}

func TestAggregateAllFailedIsPoor(t *testing.T) {
	b := Aggregate([]model.ExtractionResult{
		failedResult("https://a.com", model.FailureTimeout),
		failedResult("https://b.com", model.FailureBlocked),
	})

	assert.Equal(t, TierPoor, b.Quality)
	assert.Equal(t, 0, b.SuccessfulScrapes)
	assert.Equal(t, float64(0), b.AverageContentLength)
}

func TestAggregateEmptyIsPoor(t *testing.T) {
	b := Aggregate(nil)
	assert.Equal(t, TierPoor, b.Quality)
	assert.Equal(t, 0, b.TotalSources)
}

// Improving the batch never lowers the tier.
func TestTierMonotonicity(t *testing.T) {
	rank := map[QualityTier]int{TierPoor: 0, TierGood: 1, TierExcellent: 2}

	weak := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", richCompanyContent()),
		failedResult("https://a.com", model.FailureTimeout),
		failedResult("https://b.com", model.FailureTimeout),
	})
	stronger := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", richCompanyContent()),
		successResult("https://a.com", richCompanyContent()),
		failedResult("https://b.com", model.FailureTimeout),
	})
	strongest := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", richCompanyContent()),
		successResult("https://a.com", richCompanyContent()),
		successResult("https://b.com", richCompanyContent()),
	})

	assert.LessOrEqual(t, rank[weak.Quality], rank[stronger.Quality])
	assert.LessOrEqual(t, rank[stronger.Quality], rank[strongest.Quality])
}

func TestDomainsFirstAppearanceOrder(t *testing.T) {
	b := Aggregate([]model.ExtractionResult{
		successResult("https://beta.com", "x"),
		successResult("https://alpha.com", "y"),
		failedResult("https://beta.com/about", model.FailureTimeout),
	})

	assert.Equal(t, []string{"beta.com", "alpha.com"}, b.Domains)
}

func TestRecommendationsDeterministicOrder(t *testing.T) {
	results := []model.ExtractionResult{
		successResult("https://acme.com", richCompanyContent()),
		failedResult("https://b.com", model.FailureTimeout),
	}

	first := Aggregate(results)
	second := Aggregate(results)
	assert.Equal(t, first.Recommendations, second.Recommendations)

	require.NotEmpty(t, first.Recommendations)
	assert.Equal(t, "1 of 2 sources analyzed successfully", first.Recommendations[0])
}

func TestRecommendationsAllSucceeded(t *testing.T) {
	b := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", richCompanyContent()),
	})

	require.NotEmpty(t, b.Recommendations)
	assert.Equal(t, "All 1 sources analyzed successfully", b.Recommendations[0])
	assert.Contains(t, b.Recommendations, "Rich content detected, suitable for a comprehensive profile")
}

func TestRecommendationsNoneSucceeded(t *testing.T) {
	b := Aggregate([]model.ExtractionResult{
		failedResult("https://a.com", model.FailureTimeout),
	})

	require.NotEmpty(t, b.Recommendations)
	assert.Contains(t, b.Recommendations[0], "No sources could be analyzed")
}

func TestRecommendationsMissingLeadership(t *testing.T) {
	content := "About our products and pricing. Email info@acme.com. " +
		strings.Repeat("widget platform details ", 40)
	b := Aggregate([]model.ExtractionResult{
		successResult("https://acme.com", content),
	})

	found := false
	for _, rec := range b.Recommendations {
		if strings.Contains(rec, "No leadership information detected") {
			found = true
		}
	}
	assert.True(t, found)
}
