package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profilegen/internal/apperr"
)

func TestValidateRequiresURLs(t *testing.T) {
	_, err := GenerationRequest{}.Validate()
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestValidateRejectsTooManyURLs(t *testing.T) {
	urls := make([]string, MaxRequestURLs+1)
	for i := range urls {
		urls[i] = "https://example.com/page" + strings.Repeat("x", i)
	}

	_, err := GenerationRequest{URLs: urls}.Validate()
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestValidateRejectsOversizedCustomText(t *testing.T) {
	req := GenerationRequest{
		URLs:       []string{"https://example.com"},
		CustomText: strings.Repeat("a", MaxCustomTextLength+1),
	}
	_, err := req.Validate()
	require.Error(t, err)
}

func TestValidateRejectsUnknownFocusArea(t *testing.T) {
	req := GenerationRequest{
		URLs:       []string{"https://example.com"},
		FocusAreas: []string{"overview", "astrology"},
	}
	_, err := req.Validate()
	require.Error(t, err)

	details := apperr.DetailsOf(err)
	require.NotNil(t, details)
	assert.Contains(t, details, "invalid_focus_areas")
}

func TestValidateNormalizesFocusAreaCase(t *testing.T) {
	req := GenerationRequest{
		URLs:       []string{"https://example.com"},
		FocusAreas: []string{"Overview", "PRODUCTS"},
	}
	validated, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"overview", "products"}, validated.FocusAreas)
}

func TestValidateRejectsBadLanguageTag(t *testing.T) {
	req := GenerationRequest{
		URLs:     []string{"https://example.com"},
		Language: "definitely-not-a-language-tag!!",
	}
	_, err := req.Validate()
	require.Error(t, err)
}

func TestValidateProceedsWithPartialURLs(t *testing.T) {
	req := GenerationRequest{
		URLs: []string{"https://example.com", "ftp://bad.example"},
	}
	validated, err := req.Validate()
	require.NoError(t, err)

	assert.Len(t, validated.Sources, 1)
	require.Len(t, validated.SkippedURLs, 1)
	assert.Equal(t, "ftp://bad.example", validated.SkippedURLs[0].URL)
}

func TestValidateFailsWhenNoValidURLs(t *testing.T) {
	req := GenerationRequest{URLs: []string{"ftp://a", "ftp://b"}}
	_, err := req.Validate()
	require.Error(t, err)

	details := apperr.DetailsOf(err)
	require.NotNil(t, details)
	assert.Contains(t, details, "invalid_urls")
}

func TestValidateAppliesDefaultMaxContentLength(t *testing.T) {
	validated, err := GenerationRequest{URLs: []string{"https://example.com"}}.Validate()
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxContentLen, validated.MaxContentLength)
}

func TestCacheEnabledDefaultsTrue(t *testing.T) {
	assert.True(t, GenerationRequest{}.CacheEnabled())

	disabled := false
	assert.False(t, GenerationRequest{UseCache: &disabled}.CacheEnabled())

	enabled := true
	assert.True(t, GenerationRequest{UseCache: &enabled}.CacheEnabled())
}

func TestSortedSourceURLs(t *testing.T) {
	validated, err := GenerationRequest{
		URLs: []string{"https://zeta.com", "https://alpha.com"},
	}.Validate()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://alpha.com", "https://zeta.com"}, validated.SortedSourceURLs())
}
