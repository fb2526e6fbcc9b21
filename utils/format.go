package utils

import (
	"strings"
	"time"

	units "github.com/docker/go-units"
	"github.com/opencontainers/go-digest"
)

// shortDigestLen matches the engine's truncated ID length.
const shortDigestLen = 12

// FormatSize renders a byte count with decimal units (e.g. "1.234kB").
func FormatSize(bytes int64) string {
	return units.HumanSize(float64(bytes))
}

// FormatRelativeTime renders t relative to now, e.g. "3 seconds ago".
func FormatRelativeTime(t, now time.Time) string {
	return units.HumanDuration(now.Sub(t)) + " ago"
}

// FormatISOTime renders t as RFC 3339 with second precision in loc.
func FormatISOTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Truncate(time.Second).Format(time.RFC3339)
}

// FormatDigest returns s unchanged, or when short is set, the first 12
// characters of its encoded part with the algorithm stripped.
func FormatDigest(s string, short bool) string {
	if !short {
		return s
	}
	enc := s
	if strings.Contains(s, ":") {
		enc = digest.Digest(s).Encoded()
	}
	if len(enc) > shortDigestLen {
		enc = enc[:shortDigestLen]
	}
	return enc
}
