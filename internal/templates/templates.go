// Package templates holds the fixed registry of profile templates and
// resolves the effective focus areas for a generation request.
package templates

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/profilegen/internal/apperr"
	"github.com/sells-group/profilegen/internal/model"
)

// DefaultTemplate is the fallback used when a request names an unknown
// template.
const DefaultTemplate = "enterprise"

// Template describes one entry in the registry. The registry is fixed
// at compile time; there is no runtime mutation.
type Template struct {
	Name         string            `json:"-"`
	DisplayName  string            `json:"name"`
	Description  string            `json:"description"`
	FocusAreas   []model.FocusArea `json:"focus_areas"`
	Instructions string            `json:"custom_instructions"`
}

var registry = map[string]Template{
	"startup": {
		Name:        "startup",
		DisplayName: "Startup Profile",
		Description: "Focused on early-stage companies, funding, and growth",
		FocusAreas: []model.FocusArea{
			model.FocusOverview, model.FocusLeadership, model.FocusProducts,
			model.FocusFinancials, model.FocusMarket,
		},
		Instructions: "Focus on founding story, team background, product development, funding rounds, and market opportunity.",
	},
	"enterprise": {
		Name:        "enterprise",
		DisplayName: "Enterprise Profile",
		Description: "Comprehensive profile for established companies",
		FocusAreas: []model.FocusArea{
			model.FocusOverview, model.FocusHistory, model.FocusProducts,
			model.FocusLeadership, model.FocusFinancials, model.FocusMarket,
			model.FocusCompetitive,
		},
		Instructions: "Include company history, full product portfolio, executive team, financial performance, market position, and competitive landscape.",
	},
	"technology": {
		Name:        "technology",
		DisplayName: "Technology Company",
		Description: "Tech-focused profile with emphasis on innovation",
		FocusAreas: []model.FocusArea{
			model.FocusOverview, model.FocusProducts, model.FocusTechnology,
			model.FocusLeadership, model.FocusMarket,
		},
		Instructions: "Highlight technology stack, innovative products, technical leadership, development approach, and market disruption potential.",
	},
	"financial": {
		Name:        "financial",
		DisplayName: "Financial Services",
		Description: "Profile for financial and investment companies",
		FocusAreas: []model.FocusArea{
			model.FocusOverview, model.FocusProducts, model.FocusFinancials,
			model.FocusLeadership, model.FocusMarket,
		},
		Instructions: "Focus on financial products, regulatory compliance, leadership experience, market position, and financial performance.",
	},
}

// All returns every registered template sorted by name.
func All() []Template {
	out := make([]Template, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered template names sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolution is the outcome of resolving a request's template and focus
// areas.
type Resolution struct {
	Template   Template
	FocusAreas []model.FocusArea
	// FellBack is set when the requested template was unknown and the
	// default was substituted.
	FellBack bool
}

// Resolve picks the template for name and computes the effective focus
// areas. An empty or unknown name resolves to the default template; the
// substitution is logged but not surfaced as an error. Explicit focus
// areas, when present, replace the template's list entirely; an unknown
// tag in them is a validation error.
func Resolve(name string, explicit []string) (Resolution, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	tmpl, ok := registry[key]
	fellBack := false
	if !ok {
		if key != "" {
			zap.L().Debug("templates: unknown template, using default",
				zap.String("requested", name),
				zap.String("default", DefaultTemplate),
			)
			fellBack = true
		}
		tmpl = registry[DefaultTemplate]
	}

	areas := tmpl.FocusAreas
	if len(explicit) > 0 {
		areas = make([]model.FocusArea, 0, len(explicit))
		for _, tag := range explicit {
			if !model.ValidFocusArea(tag) {
				return Resolution{}, apperr.Validation("invalid focus area",
					map[string]any{"focus_area": tag})
			}
			areas = append(areas, model.FocusArea(strings.ToLower(tag)))
		}
	}

	return Resolution{Template: tmpl, FocusAreas: areas, FellBack: fellBack}, nil
}
