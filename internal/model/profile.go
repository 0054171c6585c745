package model

import "time"

// BasicInfo holds the required core of a company profile. Name and
// Overview must be non-empty for a profile to pass assembly.
type BasicInfo struct {
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	Industry     string `json:"industry,omitempty"`
	Founded      string `json:"founded,omitempty"`
	Headquarters string `json:"headquarters,omitempty"`
	Size         string `json:"size,omitempty"`
	Website      string `json:"website,omitempty"`
}

// ProductService describes one offering.
type ProductService struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// LeadershipMember describes one named leader. Name and Position are
// required when present.
type LeadershipMember struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Bio      string `json:"bio,omitempty"`
}

// TechnologyItem describes one technology in use. Name and Category are
// required when present.
type TechnologyItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ContactInfo aggregates discovered contact channels.
type ContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// FinancialInfo is optional supplemental financial detail.
type FinancialInfo struct {
	Revenue   string   `json:"revenue,omitempty"`
	Funding   string   `json:"funding,omitempty"`
	Investors []string `json:"investors,omitempty"`
}

// CompanyProfile is the canonical synthesized profile. Immutable after
// assembly.
type CompanyProfile struct {
	BasicInfo        BasicInfo          `json:"basic_info"`
	ProductsServices []ProductService   `json:"products_services,omitempty"`
	Leadership       []LeadershipMember `json:"leadership,omitempty"`
	Technologies     []TechnologyItem   `json:"technologies,omitempty"`
	Contact          ContactInfo        `json:"contact,omitempty"`
	Values           []string           `json:"values,omitempty"`
	Achievements     []string           `json:"achievements,omitempty"`
	MarketPosition   string             `json:"market_position,omitempty"`
	RecentNews       []string           `json:"recent_news,omitempty"`
	Financials       *FinancialInfo     `json:"financials,omitempty"`
}

// ProcessingMethod tags how a profile was produced.
const (
	ProcessingFull     = "ai_synthesis"
	ProcessingDegraded = "degraded"
	ProcessingCached   = "cached"
)

// TokenUsage tracks LLM token consumption for one generation.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Add accumulates usage from another call.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// GenerationMetadata always accompanies a CompanyProfile.
type GenerationMetadata struct {
	GenerationID     string        `json:"generation_id"`
	Duration         time.Duration `json:"duration"`
	SourcesProcessed int           `json:"sources_processed"`
	SkippedURLs      []InvalidURL  `json:"skipped_urls,omitempty"`
	Model            string        `json:"model"`
	QualityScore     float64       `json:"quality_score"`
	TokenUsage       TokenUsage    `json:"token_usage"`
	CostUSD          float64       `json:"cost_usd"`
	ProcessingMethod string        `json:"processing_method"`
	CacheHit         bool          `json:"cache_hit"`
	CompletedAt      time.Time     `json:"completed_at"`
}

// GenerationResult pairs a profile with its metadata.
type GenerationResult struct {
	Profile  CompanyProfile     `json:"profile_data"`
	Metadata GenerationMetadata `json:"metadata"`
}
