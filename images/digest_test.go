package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		key  string
		hex  string
		want bool
	}{
		{"sha256:ABCD", "abcd", true},
		{"abcd", "abcd", true},
		{"ab", "ab", true},
		{"a", "", false},
		{"sha256:", "", false},
		{"nginx:latest", "", false},
		{"sha512:abcd", "", false},
		{"abcdz", "", false},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			hex, ok := ParseKey(c.key)
			assert.Equal(t, c.want, ok)
			assert.Equal(t, c.hex, hex)
		})
	}
}

func TestDigest(t *testing.T) {
	d := NewDigest("abcd")
	assert.Equal(t, "sha256:abcd", d.String())
	assert.Equal(t, "abcd", d.Hex())
}
