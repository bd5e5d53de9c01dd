package imageurl

import (
	"strings"
)

var validExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Normalizer canonicalizes image URLs discovered on product pages.
// Protocol-relative and root-relative URLs are rewritten against the
// storefront CDN; anything that does not end up as an http(s) URL with an
// image extension is rejected.
type Normalizer struct {
	CDNHost string
}

// Normalize returns the canonical form of url, or "" when the URL is not a
// usable image source. Query parameters are always stripped.
func (n Normalizer) Normalize(url string) string {
	if url == "" {
		return ""
	}

	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}

	switch {
	case strings.HasPrefix(url, "//"):
		url = "https:" + url
	case strings.HasPrefix(url, "/"):
		url = "https://" + n.CDNHost + url
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ""
	}

	lower := strings.ToLower(url)
	for _, ext := range validExtensions {
		if strings.HasSuffix(lower, ext) {
			return url
		}
	}

	return ""
}

// Dedup collects normalized URLs preserving first-seen order, up to max
// entries. Rejected candidates are skipped silently.
type Dedup struct {
	normalizer Normalizer
	max        int
	seen       map[string]struct{}
	urls       []string
}

func NewDedup(normalizer Normalizer, max int) *Dedup {
	return &Dedup{
		normalizer: normalizer,
		max:        max,
		seen:       make(map[string]struct{}),
	}
}

// Add normalizes and appends candidate when it is valid, unseen and the cap
// has not been reached. Reports whether the URL was accepted.
func (d *Dedup) Add(candidate string) bool {
	if d.Full() {
		return false
	}

	url := d.normalizer.Normalize(candidate)
	if url == "" {
		return false
	}

	if _, ok := d.seen[url]; ok {
		return false
	}

	d.seen[url] = struct{}{}
	d.urls = append(d.urls, url)
	return true
}

func (d *Dedup) Full() bool {
	return len(d.urls) >= d.max
}

func (d *Dedup) URLs() []string {
	return d.urls
}
