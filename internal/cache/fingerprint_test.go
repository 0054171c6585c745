package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profilegen/internal/model"
)

func validated(t *testing.T, req model.GenerationRequest) *model.ValidatedRequest {
	t.Helper()
	v, err := req.Validate()
	require.NoError(t, err)
	return v
}

func TestFingerprintDeterministic(t *testing.T) {
	req := model.GenerationRequest{
		URLs:     []string{"https://example.com", "https://example.com/about"},
		Template: "startup",
	}

	fp1 := Fingerprint(validated(t, req))
	fp2 := Fingerprint(validated(t, req))
	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64)
}

func TestFingerprintIgnoresURLOrder(t *testing.T) {
	a := validated(t, model.GenerationRequest{
		URLs: []string{"https://example.com", "https://example.com/about"},
	})
	b := validated(t, model.GenerationRequest{
		URLs: []string{"https://example.com/about", "https://example.com"},
	})

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintIgnoresFocusAreaOrder(t *testing.T) {
	a := validated(t, model.GenerationRequest{
		URLs:       []string{"https://example.com"},
		FocusAreas: []string{"overview", "products"},
	})
	b := validated(t, model.GenerationRequest{
		URLs:       []string{"https://example.com"},
		FocusAreas: []string{"products", "overview"},
	})

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintSensitivity(t *testing.T) {
	base := model.GenerationRequest{
		URLs:     []string{"https://example.com"},
		Template: "startup",
	}
	baseFP := Fingerprint(validated(t, base))

	variants := []model.GenerationRequest{
		{URLs: []string{"https://example.com/other"}, Template: "startup"},
		{URLs: base.URLs, Template: "enterprise"},
		{URLs: base.URLs, Template: "startup", CustomText: "extra context"},
		{URLs: base.URLs, Template: "startup", FocusAreas: []string{"leadership"}},
		{URLs: base.URLs, Template: "startup", IncludeFinancials: true},
		{URLs: base.URLs, Template: "startup", Language: "de"},
		{URLs: base.URLs, Template: "startup", MaxContentLength: 500},
	}
	for i, v := range variants {
		assert.NotEqual(t, baseFP, Fingerprint(validated(t, v)), "variant %d should change the fingerprint", i)
	}
}

func TestFingerprintIgnoresCacheFlag(t *testing.T) {
	disabled := false
	a := validated(t, model.GenerationRequest{URLs: []string{"https://example.com"}})
	b := validated(t, model.GenerationRequest{URLs: []string{"https://example.com"}, UseCache: &disabled})

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}
