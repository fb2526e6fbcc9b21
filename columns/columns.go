// Package columns projects image metadata into display rows: one logical
// column yields zero or more values per image, multi-valued columns are
// exploded into several rows, and rows can be ordered and truncated.
package columns

import (
	"fmt"
	"sort"
	"strings"
)

// Column is a logical column of the image table.
type Column int

const (
	Architecture Column = iota
	CreatedISO
	Created
	Digest
	ID
	Name
	OS
	Platform
	Registry
	RepoTag
	Repository
	Size
	Tag

	numColumns
)

// Spec describes how a column is displayed.
type Spec struct {
	Name       string
	Title      string
	AlignRight bool
}

var specs = [numColumns]Spec{
	Architecture: {"architecture", "ARCH", false},
	CreatedISO:   {"created:iso", "CREATED TIME", true},
	Created:      {"created", "CREATED", true},
	Digest:       {"digest", "DIGEST", false},
	ID:           {"id", "ID", false},
	Name:         {"name", "NAME", false},
	OS:           {"os", "OS", false},
	Platform:     {"platform", "PLATFORM", false},
	Registry:     {"registry", "REGISTRY", false},
	RepoTag:      {"repo_tag", "REPO TAG", false},
	Repository:   {"repository", "REPOSITORY", false},
	Size:         {"size", "SIZE", true},
	Tag:          {"tag", "TAG", false},
}

var aliases = map[string]Column{
	"arch": Architecture,
	"repo": Repository,
}

var sets = map[string][]Column{
	"default": {ID, Repository, Tag, Created, Size},
	"compact": {ID, RepoTag},
}

// Valid reports whether c is a known column.
func (c Column) Valid() bool {
	return c >= 0 && c < numColumns
}

// Spec returns the display spec of c.
func (c Column) Spec() Spec {
	if !c.Valid() {
		return Spec{Name: fmt.Sprintf("column(%d)", int(c)), Title: "?"}
	}
	return specs[c]
}

func (c Column) String() string {
	return c.Spec().Name
}

// Parse resolves a column name or alias, ignoring case.
func Parse(name string) (Column, bool) {
	name = strings.ToLower(name)
	if c, ok := aliases[name]; ok {
		return c, true
	}
	for c := range numColumns {
		if specs[c].Name == name {
			return c, true
		}
	}
	return 0, false
}

// Choices lists every accepted name: columns, aliases and sets.
func Choices() []string {
	out := make([]string, 0, int(numColumns)+len(aliases)+len(sets))
	for c := range numColumns {
		out = append(out, specs[c].Name)
	}
	for a := range aliases {
		out = append(out, a)
	}
	for s := range sets {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Normalize expands sets and aliases, dropping repeated columns.
// Set members are always appended as listed.
func Normalize(names []string) ([]Column, error) {
	var out []Column
	seen := map[Column]struct{}{}
	for _, name := range names {
		if set, ok := sets[strings.ToLower(name)]; ok {
			out = append(out, set...)
			for _, c := range set {
				seen[c] = struct{}{}
			}
			continue
		}
		c, ok := Parse(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
