// Package parser normalizes the raw field values extracted from catalog markup.
package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// cataloguePath is the fixed path segment listing hrefs are relative to.
const cataloguePath = "/catalogue/"

// ratingWords maps the catalog's textual rating classes to numeric values.
// Order matters: the first word present in the class list wins.
var ratingWords = []struct {
	word  string
	value int
}{
	{"One", 1},
	{"Two", 2},
	{"Three", 3},
	{"Four", 4},
	{"Five", 5},
}

// ParsePrice converts a currency-prefixed price string such as "£51.77" to
// its numeric value. Pages are served Latin-1-mojibake'd often enough that
// the stray "Â" byte artifact is stripped alongside the pound sign.
func ParsePrice(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "£", "")
	cleaned = strings.ReplaceAll(cleaned, "Â", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price text")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	return value, nil
}

// ParseRating converts a star-rating class attribute ("star-rating Three")
// to an integer in 1..5. An unknown or missing label maps to 0 rather than
// failing.
func ParseRating(classAttr string) int {
	tokens := strings.Fields(classAttr)
	for _, rw := range ratingWords {
		if slices.Contains(tokens, rw.word) {
			return rw.value
		}
	}
	return 0
}

// ResolveLink builds the absolute detail URL for a listing href. Catalog
// hrefs are relative to the catalogue root and may carry "../" segments,
// which are dropped before joining. Absolute hrefs pass through untouched.
func ResolveLink(baseURL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	cleaned := strings.ReplaceAll(href, "../", "")
	return strings.TrimSuffix(baseURL, "/") + cataloguePath + cleaned
}
