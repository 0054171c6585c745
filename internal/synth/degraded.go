package synth

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/profilegen/internal/analyze"
	"github.com/sells-group/profilegen/internal/model"
)

// degradedOverviewLimit caps the overview excerpt taken from raw content.
const degradedOverviewLimit = 600

var degradedEmailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// BuildDegraded assembles a minimal profile directly from the evidence
// when AI synthesis is unavailable. Deterministic: same evidence, same
// profile. The result always satisfies the required-field contract as
// long as at least one source succeeded or custom text was provided.
func BuildDegraded(req *model.ValidatedRequest, evidence analyze.EvidenceBundle) model.CompanyProfile {
	var profile model.CompanyProfile

	var first *analyze.SourceDetail
	for i := range evidence.Sources {
		if evidence.Sources[i].Result.Succeeded() {
			first = &evidence.Sources[i]
			break
		}
	}

	switch {
	case first != nil && first.Result.Title != "":
		profile.BasicInfo.Name = cleanTitle(first.Result.Title)
	case first != nil:
		profile.BasicInfo.Name = nameFromDomain(first.Result.URL.Domain)
	case len(req.Sources) > 0:
		profile.BasicInfo.Name = nameFromDomain(req.Sources[0].Domain)
	default:
		profile.BasicInfo.Name = "Unknown Company"
	}

	switch {
	case first != nil:
		profile.BasicInfo.Overview = excerpt(first.Result.Content, degradedOverviewLimit)
		profile.BasicInfo.Website = first.Result.URL.Normalized
	case req.CustomText != "":
		profile.BasicInfo.Overview = excerpt(req.CustomText, degradedOverviewLimit)
	default:
		profile.BasicInfo.Overview = "No source content could be retrieved for this company."
	}

	if first != nil {
		if m := degradedEmailRe.FindString(first.Result.Content); m != "" {
			profile.Contact.Email = m
		}
	}

	return profile
}

// cleanTitle strips common page-title suffixes like "Acme Corp - Home".
func cleanTitle(title string) string {
	for _, sep := range []string{" | ", " - ", " – ", " :: "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	return strings.TrimSpace(title)
}

// nameFromDomain derives a display name from a domain: "acme-corp.com"
// becomes "Acme Corp".
func nameFromDomain(domain string) string {
	if domain == "" {
		return "Unknown Company"
	}
	host := strings.TrimPrefix(domain, "www.")
	if idx := strings.Index(host, "."); idx > 0 {
		host = host[:idx]
	}
	host = strings.NewReplacer("-", " ", "_", " ").Replace(host)
	return cases.Title(language.English).String(host)
}

// excerpt truncates text at the limit, backing up to a word boundary.
func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndex(cut, " "); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
