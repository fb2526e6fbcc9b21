package selector

import (
	"regexp"

	"github.com/projecteru2/bollard/types"
	"github.com/projecteru2/bollard/utils"
)

// Kind is the image field a Rule is evaluated against.
type Kind int

const (
	KindID Kind = iota
	KindDigest
	KindRegistry
	KindName
	KindTag
	KindRepository
	KindRepoTag
)

var kindNames = map[Kind]string{
	KindID:         "ID",
	KindDigest:     "DIGEST",
	KindRegistry:   "REGISTRY",
	KindName:       "NAME",
	KindTag:        "TAG",
	KindRepository: "REPO",
	KindRepoTag:    "REPO_TAG",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Rule is one interpretation of a selector. Pattern is anchored for every
// kind except KindDigest, which is searched.
type Rule struct {
	Kind    Kind
	Pattern *regexp.Regexp
}

// Matches reports whether any value of the rule's field matches.
func (r Rule) Matches(img *types.Image) bool {
	for _, v := range r.values(img) {
		if r.Pattern.MatchString(v) {
			return true
		}
	}
	return false
}

func (r Rule) values(img *types.Image) []string {
	switch r.Kind {
	case KindID:
		return []string{img.ID}
	case KindDigest:
		return img.RepoDigests
	case KindRegistry, KindName, KindTag:
		out := make([]string, 0, len(img.RepoTags))
		for _, rt := range img.RepoTags {
			registry, name, tag := utils.SplitRepoTag(rt)
			switch r.Kind { //nolint:exhaustive
			case KindRegistry:
				out = append(out, registry)
			case KindName:
				out = append(out, name)
			default:
				out = append(out, tag)
			}
		}
		return out
	case KindRepository:
		out := make([]string, 0, len(img.RepoTags))
		for _, rt := range img.RepoTags {
			registry, name, _ := utils.SplitRepoTag(rt)
			out = append(out, utils.JoinRepository(registry, name))
		}
		return out
	case KindRepoTag:
		out := make([]string, 0, 2*len(img.RepoTags))
		for _, rt := range img.RepoTags {
			out = append(out, rt)
			if registry, name, tag := utils.SplitRepoTag(rt); registry != "" {
				out = append(out, name+":"+tag)
			}
		}
		return out
	}
	return nil
}
