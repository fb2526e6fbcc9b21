package utils

import (
	"strings"

	"github.com/opencontainers/go-digest"
)

// SplitRepoTag splits "[registry/]name:tag" into its three components.
// The registry is everything before the last slash and may be empty.
func SplitRepoTag(s string) (registry, name, tag string) {
	repo := s
	if i := strings.LastIndex(s, ":"); i >= 0 {
		repo, tag = s[:i], s[i+1:]
	}
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		return repo[:i], repo[i+1:], tag
	}
	return "", repo, tag
}

// JoinRepository returns "registry/name", or the bare name when registry is empty.
func JoinRepository(registry, name string) string {
	if registry == "" {
		return name
	}
	return registry + "/" + name
}

// SplitDigestRef splits "[registry/]name@algorithm:hex" at the '@'.
func SplitDigestRef(ref string) (string, digest.Digest) {
	repo, dgst, ok := strings.Cut(ref, "@")
	if !ok {
		return "", digest.Digest(ref)
	}
	return repo, digest.Digest(dgst)
}
