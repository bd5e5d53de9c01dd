package parser

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/turmarkt/trendyol-catalog/internal/imageurl"
)

// The product detail pages embed a JSON blob mirroring the client-side
// rendering state. It is the lowest-priority data source per field: markup
// comes and goes with frontend releases, the state object is more stable.
const stateMarker = "window.__PRODUCT_DETAIL_APP_INITIAL_STATE__"

var (
	stateNameRe     = regexp.MustCompile(`"name":"([^"]+)"`)
	statePriceRe    = regexp.MustCompile(`"price":(\d+\.?\d*)`)
	stateCategoryRe = regexp.MustCompile(`"categoryName":"([^"]+)"`)

	// Assignment patterns for embedded state objects, most specific first.
	stateAssignPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)window\.__PRODUCT_DETAIL_APP_INITIAL_STATE__\s*=\s*(\{.*?\});`),
		regexp.MustCompile(`(?s)window\.__PRODUCT_DATA__\s*=\s*(\{.*?\});`),
		regexp.MustCompile(`(?s)window\.__INITIAL_STATE__\s*=\s*(\{.*?\});`),
	}

	// Key paths where image lists have been observed, in decreasing
	// confidence. First path that yields URLs does not stop the walk; all
	// discovered URLs feed the same deduplicated list.
	stateImagePaths = [][]string{
		{"product", "images"},
		{"product", "imageList"},
		{"product", "media", "images"},
		{"images"},
		{"imageList"},
	}
)

// stateScript returns the text of the first script tag carrying the product
// detail state, or "" when the page has none.
func stateScript(doc *goquery.Document) string {
	var text string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := s.Text()
		if strings.Contains(t, stateMarker) {
			text = t
			return false
		}
		return true
	})
	return text
}

// collectStateImages scans every script tag for embedded state objects and
// walks the known image key paths, feeding discovered URLs into dedup.
// Malformed JSON skips that pattern only; nothing here is fatal.
func collectStateImages(doc *goquery.Document, dedup *imageurl.Dedup) {
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if dedup.Full() {
			return false
		}

		text := s.Text()
		for _, pattern := range stateAssignPatterns {
			match := pattern.FindStringSubmatch(text)
			if match == nil {
				continue
			}

			var data map[string]any
			if err := json.Unmarshal([]byte(match[1]), &data); err != nil {
				continue
			}

			for _, path := range stateImagePaths {
				for _, item := range itemsAtPath(data, path) {
					if url := imageURLFromItem(item); url != "" {
						dedup.Add(url)
					}
				}
			}
		}
		return true
	})
}

// itemsAtPath walks data along path and returns the elements of the list
// (or mapping values) found there, nil when the path does not resolve.
func itemsAtPath(data map[string]any, path []string) []any {
	var current any = data
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[key]
		if !ok {
			return nil
		}
	}

	switch v := current.(type) {
	case []any:
		return v
	case map[string]any:
		// Mapping values are visited in sorted key order so discovery
		// order stays reproducible for identical input.
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		items := make([]any, 0, len(v))
		for _, key := range keys {
			items = append(items, v[key])
		}
		return items
	default:
		return nil
	}
}

// imageURLFromItem accepts either a plain URL string or an object exposing
// one of the known URL keys.
func imageURLFromItem(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range []string{"url", "src", "imageUrl"} {
			if u, ok := v[key].(string); ok && u != "" {
				return u
			}
		}
	}
	return ""
}
