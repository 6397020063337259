package textutil

import (
	"net/url"
	"strings"
)

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased; digits, dots, hyphens and underscores are kept;
// everything else becomes an underscore. Returns fallback for empty results.
func SanitizeToken(value, fallback string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-.")
	if out == "" {
		return fallback
	}
	return out
}

// HostToken returns a filesystem-safe token for the host part of rawURL.
// URLs without a host (file paths, garbage) yield fallback.
func HostToken(rawURL, fallback string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return fallback
	}
	return SanitizeToken(u.Hostname(), fallback)
}
