package page

import (
	"regexp"
	"strings"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

var validURLRe = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)\n?$`)

// IsValidURL reports whether raw is a syntactically well-formed http(s) URL
// pointing at a domain name, localhost or a dotted-quad IPv4 address.
// Like a classic regex end anchor, a single trailing newline is tolerated.
// Reachability is not checked.
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}

	return validURLRe.MatchString(raw)
}

// TrimLineEnd drops the single trailing newline IsValidURL tolerates.
func TrimLineEnd(raw string) string {
	return strings.TrimSuffix(raw, "\n")
}

// CanonicalURL drops the fragment and surrounding whitespace so that equal
// pages share one cache key.
func CanonicalURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if i := strings.IndexByte(trimmed, '#'); i >= 0 {
		trimmed = trimmed[:i]
	}

	return trimmed
}
