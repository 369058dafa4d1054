// Package furniture produces shoppable search URLs for detected furniture
// categories. Pure string templating, no network.
package furniture

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"roomdesign/internal/domain"
)

const (
	amazonTemplate    = "https://www.amazon.in/s?k="
	flipkartTemplate  = "https://www.flipkart.com/search?q="
	pepperfryTemplate = "https://www.pepperfry.com/search?q="
)

var titleCaser = cases.Title(language.English)

// SearchURLs builds the storefront URLs for one category. Identical input
// always yields identical output.
func SearchURLs(category string) domain.SearchURLs {
	encoded := encodeQuery(category)
	return domain.SearchURLs{
		Amazon:    amazonTemplate + encoded,
		Flipkart:  flipkartTemplate + encoded,
		Pepperfry: pepperfryTemplate + encoded,
	}
}

// Categories pairs each detected category name with its URLs, Title-casing
// the name for display.
func Categories(names []string) []domain.FurnitureCategory {
	out := make([]domain.FurnitureCategory, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		display := titleCaser.String(name)
		out = append(out, domain.FurnitureCategory{
			Category:   display,
			SearchURLs: SearchURLs(display),
		})
	}
	return out
}

// encodeQuery percent-encodes a category the way browsers encode URI
// components: spaces become %20, not +.
func encodeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
