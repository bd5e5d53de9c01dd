package database

import "strings"

// Platform labels identify which storefront a tracked price came from.
const (
	PlatformTrendyol    = "trendyol"
	PlatformHepsiburada = "hepsiburada"
	// PlatformUnknown tags prices from unrecognized source domains. The
	// previous behavior silently attributed those to hepsiburada, which
	// mislabeled history rows; the explicit tag replaces that.
	PlatformUnknown = "unknown"
)

// PlatformForURL derives the platform tag from a source URL by domain
// substring. It never fails; unrecognized domains get PlatformUnknown.
func PlatformForURL(sourceURL string) string {
	url := strings.ToLower(sourceURL)
	switch {
	case strings.Contains(url, "trendyol.com"):
		return PlatformTrendyol
	case strings.Contains(url, "hepsiburada.com"):
		return PlatformHepsiburada
	default:
		return PlatformUnknown
	}
}
