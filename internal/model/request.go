package model

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/sells-group/profilegen/internal/apperr"
)

// Request size limits.
const (
	MaxRequestURLs       = 10
	MaxCustomTextLength  = 20000
	DefaultMaxContentLen = 2000
)

// FocusArea is an enumerated tag selecting which profile sections to
// emphasize during synthesis.
type FocusArea string

const (
	FocusOverview    FocusArea = "overview"
	FocusHistory     FocusArea = "history"
	FocusProducts    FocusArea = "products"
	FocusLeadership  FocusArea = "leadership"
	FocusFinancials  FocusArea = "financials"
	FocusTechnology  FocusArea = "technology"
	FocusMarket      FocusArea = "market"
	FocusNews        FocusArea = "news"
	FocusCompetitive FocusArea = "competitive"
)

// AllFocusAreas is the global enumerated tag set.
var AllFocusAreas = []FocusArea{
	FocusOverview, FocusHistory, FocusProducts, FocusLeadership,
	FocusFinancials, FocusTechnology, FocusMarket, FocusNews,
	FocusCompetitive,
}

// ValidFocusArea reports whether the tag is in the enumerated set.
func ValidFocusArea(tag string) bool {
	for _, fa := range AllFocusAreas {
		if string(fa) == strings.ToLower(tag) {
			return true
		}
	}
	return false
}

// GenerationRequest is the fully-specified input to one profile generation.
// It must pass Validate before entering the pipeline.
type GenerationRequest struct {
	URLs              []string `json:"urls" yaml:"urls"`
	CustomText        string   `json:"custom_text,omitempty" yaml:"custom_text"`
	FocusAreas        []string `json:"focus_areas,omitempty" yaml:"focus_areas"`
	Template          string   `json:"template,omitempty" yaml:"template"`
	IncludeFinancials bool     `json:"include_financials,omitempty" yaml:"include_financials"`
	IncludeNews       bool     `json:"include_news,omitempty" yaml:"include_news"`
	MaxContentLength  int      `json:"max_content_length,omitempty" yaml:"max_content_length"`
	Language          string   `json:"language,omitempty" yaml:"language"`
	UseCache          *bool    `json:"use_cache,omitempty" yaml:"use_cache"`
}

// CacheEnabled reports whether this request may be served from or
// written to the cache. Defaults to true when the field is omitted.
func (r GenerationRequest) CacheEnabled() bool {
	return r.UseCache == nil || *r.UseCache
}

// ValidatedRequest is a GenerationRequest after normalization: URLs are
// deduplicated SourceURLs and defaults are applied.
type ValidatedRequest struct {
	GenerationRequest
	Sources     []SourceURL
	SkippedURLs []InvalidURL
}

// Validate checks the request against the input contract. Invalid URLs are
// reported in the error details; a request with at least one valid URL and
// otherwise sound fields passes, carrying the skipped entries.
func (r GenerationRequest) Validate() (*ValidatedRequest, error) {
	if len(r.URLs) == 0 {
		return nil, apperr.Validation("at least one url is required", nil)
	}
	if len(r.URLs) > MaxRequestURLs {
		return nil, apperr.Validation(
			fmt.Sprintf("too many urls: %d (max %d)", len(r.URLs), MaxRequestURLs), nil)
	}
	if len(r.CustomText) > MaxCustomTextLength {
		return nil, apperr.Validation(
			fmt.Sprintf("custom_text exceeds %d characters", MaxCustomTextLength), nil)
	}

	for _, tag := range r.FocusAreas {
		if !ValidFocusArea(tag) {
			return nil, apperr.Validation("unknown focus area: "+tag, map[string]any{
				"invalid_focus_areas": []string{tag},
				"valid_focus_areas":   AllFocusAreas,
			})
		}
	}

	if r.Language != "" {
		if _, err := language.Parse(r.Language); err != nil {
			return nil, apperr.Validation("invalid language tag: "+r.Language, nil)
		}
	}

	sources, invalid := ValidateURLs(r.URLs)
	if len(sources) == 0 {
		return nil, apperr.Validation("no valid urls in request", map[string]any{
			"invalid_urls": invalid,
		})
	}

	if r.MaxContentLength <= 0 {
		r.MaxContentLength = DefaultMaxContentLen
	}

	norm := make([]string, 0, len(r.FocusAreas))
	for _, tag := range r.FocusAreas {
		norm = append(norm, strings.ToLower(tag))
	}
	r.FocusAreas = norm

	return &ValidatedRequest{
		GenerationRequest: r,
		Sources:           sources,
		SkippedURLs:       invalid,
	}, nil
}

// SortedSourceURLs returns the normalized source URLs in lexical order.
// Used by fingerprinting so that input ordering does not matter.
func (v *ValidatedRequest) SortedSourceURLs() []string {
	urls := make([]string, len(v.Sources))
	for i, s := range v.Sources {
		urls[i] = s.Normalized
	}
	sort.Strings(urls)
	return urls
}
