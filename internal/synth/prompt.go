package synth

import (
	"fmt"
	"strings"

	"github.com/sells-group/profilegen/internal/analyze"
	"github.com/sells-group/profilegen/internal/model"
	"github.com/sells-group/profilegen/internal/templates"
)

// perSourceBudget caps how much of each source's content enters the
// prompt. Keeps the request inside the model's context window even with
// ten rich sources.
const perSourceBudget = 6000

const systemPrompt = `You are a business research analyst. You synthesize factual company profiles from scraped web content. You extract only information supported by the provided sources, never invent facts, and always respond with valid JSON matching the requested schema exactly.`

const profileSchema = `{
  "basic_info": {
    "name": "company name",
    "overview": "comprehensive overview of the company",
    "industry": "industry classification",
    "founded": "founding year or date",
    "headquarters": "headquarters location",
    "size": "team or company size",
    "website": "primary website URL"
  },
  "products_services": [{"name": "", "description": "", "category": ""}],
  "leadership": [{"name": "", "position": "", "bio": ""}],
  "technologies": [{"name": "", "category": ""}],
  "contact": {"email": "", "phone": "", "address": ""},
  "values": ["company values"],
  "achievements": ["awards, recognitions, milestones"],
  "market_position": "competitive positioning and target markets",
  "recent_news": ["recent developments"],
  "financials": {"revenue": "", "funding": "", "investors": []}
}`

// BuildPrompt assembles the user prompt for one synthesis call from the
// evidence bundle and the resolved template.
func BuildPrompt(req *model.ValidatedRequest, res templates.Resolution, evidence analyze.EvidenceBundle) string {
	var b strings.Builder

	b.WriteString("Create a company profile from the following source material.\n\n")

	n := 0
	for _, src := range evidence.Sources {
		if !src.Result.Succeeded() {
			continue
		}
		n++
		content := src.Result.Content
		if len(content) > perSourceBudget {
			content = content[:perSourceBudget]
		}
		fmt.Fprintf(&b, "=== Source %d: %s ===\n", n, src.Result.URL.Normalized)
		if src.Result.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", src.Result.Title)
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}

	if req.CustomText != "" {
		b.WriteString("=== Additional context provided by the requester ===\n")
		b.WriteString(req.CustomText)
		b.WriteString("\n\n")
	}

	areas := make([]string, len(res.FocusAreas))
	for i, fa := range res.FocusAreas {
		areas[i] = string(fa)
	}
	fmt.Fprintf(&b, "Profile type: %s\n", res.Template.DisplayName)
	fmt.Fprintf(&b, "Focus areas: %s\n", strings.Join(areas, ", "))
	if res.Template.Instructions != "" {
		fmt.Fprintf(&b, "Guidance: %s\n", res.Template.Instructions)
	}
	if req.Language != "" {
		fmt.Fprintf(&b, "Write all profile text in language: %s\n", req.Language)
	}
	if !req.IncludeFinancials {
		b.WriteString("Omit the financials section.\n")
	}
	if !req.IncludeNews {
		b.WriteString("Omit the recent_news section.\n")
	}

	b.WriteString("\nReturn ONLY valid JSON in this exact structure:\n")
	b.WriteString(profileSchema)
	b.WriteString("\n\nUse only information supported by the sources. Leave fields empty when the sources do not cover them. Do not wrap the JSON in markdown fences.")

	return b.String()
}
