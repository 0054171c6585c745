// Package analyze scores extraction results and folds them into an
// evidence bundle for synthesis. Everything here is a pure function of
// its inputs; no network access, no mutable state.
package analyze

import (
	"math"
	"regexp"
	"strings"

	"github.com/sells-group/profilegen/internal/model"
)

// SaturationLength is the content length at which richness reaches 1.0.
// Longer content adds no further richness.
const SaturationLength = 8000

// QualityReport scores a single extraction result.
type QualityReport struct {
	URL            string          `json:"url"`
	Richness       float64         `json:"richness"`
	Accessibility  float64         `json:"accessibility"`
	HasCompanyInfo bool            `json:"has_company_info"`
	Sections       []model.Section `json:"sections"`
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[\s.\-]?)?(\(\d{2,4}\)[\s.\-]?)?\d{3}[\s.\-]\d{3,4}([\s.\-]\d{3,4})?`)
)

var organizationalKeywords = []string{
	"about us", "our team", "our company", "our mission", "founded",
	"headquarters", "who we are", "our story", "our services", "our products",
}

var structuredMarkers = []string{
	"©", "copyright", "all rights reserved", "privacy policy",
	"terms of service", "inc.", "llc", "ltd",
}

// Score produces the quality report for one extraction result.
func Score(result model.ExtractionResult) QualityReport {
	report := QualityReport{
		URL:      result.URL.Normalized,
		Sections: result.Sections,
	}
	if !result.Succeeded() {
		return report
	}

	report.Accessibility = 1.0
	report.Richness = Richness(result.ContentLength)
	report.HasCompanyInfo = HasCompanyInfo(result.Content)
	if report.Sections == nil {
		report.Sections = DetectSections(result.Content)
	}
	return report
}

// Richness maps content length to [0,1] with diminishing returns: the
// square-root curve climbs fast for short pages and saturates at
// SaturationLength.
func Richness(contentLength int) float64 {
	if contentLength <= 0 {
		return 0
	}
	r := math.Sqrt(float64(contentLength) / SaturationLength)
	return math.Min(1.0, r)
}

// HasCompanyInfo reports whether the content shows at least two of the
// fixed signal groups: contact patterns, organizational keywords, and
// structured page markers.
func HasCompanyInfo(content string) bool {
	lower := strings.ToLower(content)

	signals := 0
	if emailRe.MatchString(content) || phoneRe.MatchString(content) {
		signals++
	}
	if containsAny(lower, organizationalKeywords...) {
		signals++
	}
	if containsAny(lower, structuredMarkers...) {
		signals++
	}
	return signals >= 2
}

var sectionKeywords = map[model.Section][]string{
	model.SectionBasicInfo:        {"about", "mission", "overview", "founded", "who we are", "our story"},
	model.SectionProductsServices: {"product", "service", "solution", "platform", "pricing", "features"},
	model.SectionLeadershipTeam:   {"ceo", "cto", "founder", "leadership", "our team", "executive", "director"},
	model.SectionContactInfo:      {"contact", "address", "phone", "email", "reach us", "get in touch"},
	model.SectionCompanyUpdates:   {"news", "press", "blog", "announcement", "update", "release"},
}

// sectionOrder keeps detected sections in a stable, canonical order.
var sectionOrder = []model.Section{
	model.SectionBasicInfo,
	model.SectionProductsServices,
	model.SectionLeadershipTeam,
	model.SectionContactInfo,
	model.SectionCompanyUpdates,
}

// DetectSections reports which of the fixed section taxonomy the content
// plausibly covers.
func DetectSections(content string) []model.Section {
	if content == "" {
		return nil
	}
	lower := strings.ToLower(content)

	var sections []model.Section
	for _, sec := range sectionOrder {
		if containsAny(lower, sectionKeywords[sec]...) {
			sections = append(sections, sec)
		}
	}
	// Contact info also counts when concrete patterns are present even
	// without keyword matches.
	if !hasSection(sections, model.SectionContactInfo) && emailRe.MatchString(content) {
		sections = append(sections, model.SectionContactInfo)
	}
	return sections
}

func hasSection(sections []model.Section, want model.Section) bool {
	for _, s := range sections {
		if s == want {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
