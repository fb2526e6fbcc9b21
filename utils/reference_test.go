package utils

import (
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
)

func TestSplitRepoTag(t *testing.T) {
	cases := []struct {
		in                  string
		registry, name, tag string
	}{
		{"foo:bar", "", "foo", "bar"},
		{"example.com/foo:bar", "example.com", "foo", "bar"},
		{"public.ecr.aws/nginx/nginx:stable", "public.ecr.aws/nginx", "nginx", "stable"},
		{"localhost:5000/foo:1.0", "localhost:5000", "foo", "1.0"},
		{"untagged", "", "untagged", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			registry, name, tag := SplitRepoTag(c.in)
			assert.Equal(t, c.registry, registry)
			assert.Equal(t, c.name, name)
			assert.Equal(t, c.tag, tag)
		})
	}
}

func TestJoinRepository(t *testing.T) {
	assert.Equal(t, "foo", JoinRepository("", "foo"))
	assert.Equal(t, "example.com/foo", JoinRepository("example.com", "foo"))
}

func TestSplitDigestRef(t *testing.T) {
	repo, dgst := SplitDigestRef("example.com/name@sha256:bbbb")
	assert.Equal(t, "example.com/name", repo)
	assert.Equal(t, digest.Digest("sha256:bbbb"), dgst)

	repo, dgst = SplitDigestRef("sha256:cccc")
	assert.Empty(t, repo)
	assert.Equal(t, digest.Digest("sha256:cccc"), dgst)
}
