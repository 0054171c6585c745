package model

import "time"

// ExtractionStatus tags the outcome of one extraction attempt.
type ExtractionStatus string

const (
	ExtractionSuccess ExtractionStatus = "success"
	ExtractionFailed  ExtractionStatus = "failed"
)

// ExtractionStrategy identifies which strategy produced a result.
type ExtractionStrategy string

const (
	StrategyLightweight ExtractionStrategy = "lightweight"
	StrategyBrowser     ExtractionStrategy = "browser"
)

// Failure reasons recorded on failed extractions. HTTP errors carry the
// status code, e.g. "http_error:403".
const (
	FailureTimeout      = "timeout"
	FailureBlocked      = "blocked"
	FailureEmptyContent = "empty_content"
	FailureHTTPPrefix   = "http_error:"
)

// Section is a member of the fixed content-section taxonomy.
type Section string

const (
	SectionBasicInfo        Section = "basic_info"
	SectionProductsServices Section = "products_services"
	SectionLeadershipTeam   Section = "leadership_team"
	SectionContactInfo      Section = "contact_info"
	SectionCompanyUpdates   Section = "company_updates"
)

// ExtractionResult is the immutable record of one extraction attempt for
// one URL. Failures are recorded here, never raised past the engine.
type ExtractionResult struct {
	URL           SourceURL          `json:"url"`
	Status        ExtractionStatus   `json:"status"`
	Title         string             `json:"title,omitempty"`
	Content       string             `json:"content,omitempty"`
	ContentLength int                `json:"content_length"`
	Latency       time.Duration      `json:"latency"`
	Strategy      ExtractionStrategy `json:"strategy"`
	Sections      []Section          `json:"sections,omitempty"`
	FailureReason string             `json:"failure_reason,omitempty"`
}

// Succeeded reports whether the extraction produced usable content.
func (r ExtractionResult) Succeeded() bool {
	return r.Status == ExtractionSuccess
}
