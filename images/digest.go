package images

import (
	"regexp"
	"strings"
)

// FullLength is the hex length of a canonical sha256 image ID.
const FullLength = 64

var keyPattern = regexp.MustCompile(`^(?:[sS][hH][aA]256:)?([0-9a-fA-F]{2,64})$`)

// Digest represents a content-addressable digest in "algorithm:hex" format (e.g., "sha256:abcdef...").
type Digest string

// NewDigest creates a Digest from a raw hex string, prefixing "sha256:".
func NewDigest(hex string) Digest {
	return Digest("sha256:" + hex)
}

// Hex returns the hex portion of the digest, stripping the algorithm prefix.
func (d Digest) Hex() string {
	return strings.TrimPrefix(string(d), "sha256:")
}

// String returns the full digest string including the algorithm prefix.
func (d Digest) String() string {
	return string(d)
}

// ParseKey validates an ID or ID prefix ("[sha256:]" + 2-64 hex digits) and
// returns its lowercase hex part.
func ParseKey(key string) (string, bool) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}
