package assembly

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// ExtractText reduces raw source content to plain text suitable for
// token counting and embedding. HTML sources are parsed, script and
// style subtrees dropped, and the remaining text sanitized; plain text
// passes through with whitespace normalized.
func ExtractText(content string, format TextSourceFormat) (string, error) {
	switch format {
	case SourceHTML:
		return extractHTML(content)
	default:
		return normalizeWhitespace(content), nil
	}
}

func extractHTML(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	text := doc.Text()
	text = sanitizer.Sanitize(text)
	return normalizeWhitespace(text), nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
