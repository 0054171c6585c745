package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profilegen/internal/apperr"
	"github.com/sells-group/profilegen/internal/model"
)

func TestRegistryContents(t *testing.T) {
	assert.Equal(t, []string{"enterprise", "financial", "startup", "technology"}, Names())

	for _, tmpl := range All() {
		assert.NotEmpty(t, tmpl.DisplayName)
		assert.NotEmpty(t, tmpl.Description)
		assert.NotEmpty(t, tmpl.FocusAreas)
		for _, fa := range tmpl.FocusAreas {
			assert.True(t, model.ValidFocusArea(string(fa)), "%s: %s", tmpl.Name, fa)
		}
	}
}

func TestResolveKnownTemplate(t *testing.T) {
	res, err := Resolve("startup", nil)
	require.NoError(t, err)

	assert.Equal(t, "startup", res.Template.Name)
	assert.False(t, res.FellBack)
	assert.Equal(t, res.Template.FocusAreas, res.FocusAreas)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	res, err := Resolve("  Technology ", nil)
	require.NoError(t, err)
	assert.Equal(t, "technology", res.Template.Name)
	assert.False(t, res.FellBack)
}

func TestResolveUnknownFallsBackToEnterprise(t *testing.T) {
	res, err := Resolve("nonprofit", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultTemplate, res.Template.Name)
	assert.True(t, res.FellBack)
}

func TestResolveEmptyUsesDefaultWithoutFallbackFlag(t *testing.T) {
	res, err := Resolve("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultTemplate, res.Template.Name)
	assert.False(t, res.FellBack)
}

func TestResolveExplicitFocusOverridesTemplate(t *testing.T) {
	res, err := Resolve("enterprise", []string{"technology", "news"})
	require.NoError(t, err)

	assert.Equal(t, []model.FocusArea{model.FocusTechnology, model.FocusNews}, res.FocusAreas)
}

func TestResolveRejectsUnknownFocusArea(t *testing.T) {
	_, err := Resolve("enterprise", []string{"overview", "astrology"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
