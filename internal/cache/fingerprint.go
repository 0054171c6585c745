// Package cache stores finished generation results keyed by a
// deterministic request fingerprint, with in-memory and SQLite backends.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/profilegen/internal/model"
)

// Fingerprint derives the cache key for a validated request. The key is
// a function of request content only: URL ordering, request identity,
// and timing never change it. Two requests with the same sources,
// template, focus areas, custom text, flags, language, and length cap
// always collide.
func Fingerprint(req *model.ValidatedRequest) string {
	areas := make([]string, len(req.FocusAreas))
	copy(areas, req.FocusAreas)
	sort.Strings(areas)

	h := sha256.New()
	write := func(field, value string) {
		fmt.Fprintf(h, "%s=%s\n", field, value)
	}

	write("urls", strings.Join(req.SortedSourceURLs(), ","))
	write("template", strings.ToLower(req.Template))
	write("focus_areas", strings.Join(areas, ","))
	write("custom_text", req.CustomText)
	write("include_financials", fmt.Sprintf("%t", req.IncludeFinancials))
	write("include_news", fmt.Sprintf("%t", req.IncludeNews))
	write("language", strings.ToLower(req.Language))
	write("max_content_length", fmt.Sprintf("%d", req.MaxContentLength))

	return hex.EncodeToString(h.Sum(nil))
}
