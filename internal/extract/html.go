package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// contentSelectors are tried in order to locate the main content region.
var contentSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".main-content",
	"#main-content",
}

// noiseSelector matches elements stripped before text extraction.
const noiseSelector = "nav, footer, header, script, style, noscript, iframe, .ad, .advertisement, .sidebar, .cookie-banner, .popup"

// htmlToText parses HTML and returns (title, main body text). Noise
// elements are removed first; if no content selector matches, the whole
// body is used.
func htmlToText(html string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", eris.Wrap(err, "extract: parse html")
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(noiseSelector).Remove()

	var main *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			main = s.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return title, cleanWhitespace(main.Text()), nil
}

// cleanWhitespace trims each line and drops empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
