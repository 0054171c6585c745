package model

import (
	"net/url"
	"strings"

	"github.com/sells-group/profilegen/internal/apperr"
)

// SourceURL is a validated, normalized candidate source. Immutable once
// created by ValidateURLs.
type SourceURL struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
	Scheme     string `json:"scheme"`
	Domain     string `json:"domain"`
}

// InvalidURL records a rejected input URL and why.
type InvalidURL struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// NormalizeURL lowercases the host and strips the trailing slash. Returns
// an error for anything that is not an absolute http(s) URL.
func NormalizeURL(raw string) (SourceURL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SourceURL{}, apperr.New(apperr.KindValidation, "empty url")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return SourceURL{}, apperr.Wrap(apperr.KindValidation, "malformed url", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return SourceURL{}, apperr.New(apperr.KindValidation, "unsupported scheme: "+parsed.Scheme)
	}
	if parsed.Host == "" {
		return SourceURL{}, apperr.New(apperr.KindValidation, "missing host")
	}

	parsed.Host = strings.ToLower(parsed.Host)
	normalized := strings.TrimSuffix(parsed.String(), "/")

	return SourceURL{
		Raw:        raw,
		Normalized: normalized,
		Scheme:     parsed.Scheme,
		Domain:     parsed.Hostname(),
	}, nil
}

// ValidateURLs normalizes and deduplicates candidate URLs. Invalid entries
// are collected rather than silently dropped; the caller decides whether to
// proceed with the valid subset.
func ValidateURLs(raws []string) ([]SourceURL, []InvalidURL) {
	seen := make(map[string]struct{}, len(raws))
	valid := make([]SourceURL, 0, len(raws))
	var invalid []InvalidURL

	for _, raw := range raws {
		src, err := NormalizeURL(raw)
		if err != nil {
			invalid = append(invalid, InvalidURL{URL: raw, Reason: validationReason(err)})
			continue
		}
		if _, dup := seen[src.Normalized]; dup {
			continue
		}
		seen[src.Normalized] = struct{}{}
		valid = append(valid, src)
	}
	return valid, invalid
}

func validationReason(err error) string {
	msg := err.Error()
	// Strip the taxonomy prefix for the per-URL reason string.
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
