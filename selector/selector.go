// Package selector turns short, ambiguous user selectors into match rules
// against image metadata.
//
// A selector may be read several ways at once ("ffffff" is both an ID prefix
// and a name); every plausible reading becomes a Rule and a selector matches
// an image when any of its rules does.
package selector

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/projecteru2/core/log"

	"github.com/projecteru2/bollard/types"
)

// Allowed characters substituted for '*' per field kind.
const (
	tagChars      = `a-z0-9._-`
	nameChars     = `a-z0-9._-`
	registryChars = `a-z0-9.-`
	repoChars     = `a-z0-9/._-`
	anyChars      = `a-z0-9/:._-`
)

var (
	hexPattern   = regexp.MustCompile(`^(?:[sS][hH][aA]256:)?([0-9a-fA-F]{2,64})$`)
	tagPattern   = regexp.MustCompile(`^:([A-Za-z0-9_*][A-Za-z0-9._*-]{0,127})$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9*][A-Za-z0-9*._-]+$`)
	validPattern = regexp.MustCompile(`^[a-z0-9/:*._-]+$`)
	topNPattern  = regexp.MustCompile(`^~(\d+)$`)
)

// Translator compiles selectors into rules. Translations are cached, so an
// invalid selector is reported once per Translator. Safe for concurrent use.
type Translator struct {
	mu    sync.Mutex
	cache map[string][]Rule
}

// NewTranslator returns an empty Translator.
func NewTranslator() *Translator {
	return &Translator{cache: map[string][]Rule{}}
}

// Translate returns every rule the selector can be read as.
func (t *Translator) Translate(ctx context.Context, selector string) []Rule {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rules, ok := t.cache[selector]; ok {
		return rules
	}
	rules := translate(selector)
	if len(rules) == 0 {
		log.WithFunc("selector.Translate").Warnf(ctx, "Selector '%s' is not a valid pattern", selector)
	}
	t.cache[selector] = rules
	return rules
}

// Match reports whether img matches any reading of selector.
func (t *Translator) Match(ctx context.Context, img *types.Image, selector string) bool {
	for _, r := range t.Translate(ctx, selector) {
		if r.Matches(img) {
			return true
		}
	}
	return false
}

// MatchAll reports whether img matches every selector.
func (t *Translator) MatchAll(ctx context.Context, img *types.Image, selectors []string) bool {
	for _, s := range selectors {
		if !t.Match(ctx, img, s) {
			return false
		}
	}
	return true
}

// MatchAny reports whether img matches at least one selector.
func (t *Translator) MatchAny(ctx context.Context, img *types.Image, selectors []string) bool {
	for _, s := range selectors {
		if t.Match(ctx, img, s) {
			return true
		}
	}
	return false
}

func translate(selector string) []Rule {
	var rules []Rule

	if m := hexPattern.FindStringSubmatch(selector); m != nil {
		hex := strings.ToLower(m[1])
		rules = append(rules,
			Rule{KindID, regexp.MustCompile(`^sha256:` + hex + `[0-9a-f]*$`)},
			Rule{KindDigest, regexp.MustCompile(`@sha256:` + hex + `[0-9a-f]*$`)},
		)
	}

	if m := tagPattern.FindStringSubmatch(selector); m != nil {
		rules = append(rules, Rule{KindTag, wildcard(m[1], tagChars, true)})
	}

	if namePattern.MatchString(selector) {
		pattern := strings.ToLower(selector)
		rules = append(rules,
			Rule{KindName, wildcard(pattern, nameChars, false)},
			Rule{KindRegistry, wildcard(pattern, registryChars, false)},
		)
		if strings.HasPrefix(selector, "*") || strings.HasSuffix(selector, "*") {
			rules = append(rules, Rule{KindRepository, wildcard(pattern, repoChars, false)})
		}
	}

	if validPattern.MatchString(selector) {
		switch {
		case strings.LastIndex(selector, ":") > 0:
			rules = append(rules, Rule{KindRepoTag, wildcard(selector, anyChars, true)})
		case strings.Contains(selector, "/"):
			rules = append(rules, Rule{KindRepository, wildcard(selector, anyChars, true)})
		}
	}

	return rules
}

// wildcard compiles a glob whose only metacharacter is '*' into an anchored
// pattern. Case folding is limited to ASCII letters.
func wildcard(pattern, allowed string, ignoreCase bool) *regexp.Regexp {
	if ignoreCase {
		allowed += "A-Z"
	}
	var b strings.Builder
	b.WriteString("^(?:")
	for _, r := range pattern {
		lower := r | 0x20
		switch {
		case r == '*':
			b.WriteString("[" + allowed + "]*")
		case ignoreCase && lower >= 'a' && lower <= 'z':
			b.WriteString("[" + string(lower) + string(lower-0x20) + "]")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(")$")
	return regexp.MustCompile(b.String())
}

// ParseTopN removes "~N" tokens from args and returns the remaining
// selectors with N from the last token, or -1 when there is none.
func ParseTopN(args []string) ([]string, int) {
	n := -1
	remain := make([]string, 0, len(args))
	for _, arg := range args {
		m := topNPattern.FindStringSubmatch(arg)
		if m == nil {
			remain = append(remain, arg)
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil {
			n = v
		}
	}
	return remain, n
}
