package columns

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/projecteru2/core/log"

	"github.com/projecteru2/bollard/types"
	"github.com/projecteru2/bollard/utils"
)

const unknownArch = "unknown"

var errUnmappedColumn = errors.New("unmapped column")

var archHighlight = color.New(color.FgYellow, color.Bold)

// Formats are the per-call formatting toggles of a projection.
type Formats struct {
	ShortDigest           bool
	HighlightArchitecture bool
	// Now anchors relative times; zero means time.Now().
	Now time.Time
	// Location is used for ISO times; nil means time.Local.
	Location *time.Location
	// HostArch is compared with the image architecture; empty means runtime.GOARCH.
	HostArch string
}

// DefaultFormats returns short digests with architecture highlighting.
func DefaultFormats() Formats {
	return Formats{ShortDigest: true, HighlightArchitecture: true}
}

func (f Formats) now() time.Time {
	if f.Now.IsZero() {
		return time.Now()
	}
	return f.Now
}

func (f Formats) hostArch() string {
	if f.HostArch == "" {
		return runtime.GOARCH
	}
	return f.HostArch
}

type projector func(img *types.Image, f Formats) []string

var projectors = [numColumns]projector{
	Architecture: projectArchitecture,
	CreatedISO:   projectCreatedISO,
	Created:      projectCreated,
	Digest:       projectDigest,
	ID:           projectID,
	Name:         eachRepoTag(func(_, name, _ string) string { return name }),
	OS:           projectOS,
	Platform:     projectPlatform,
	Registry:     eachRepoTag(func(registry, _, _ string) string { return registry }),
	RepoTag:      eachRepoTag(func(registry, name, tag string) string { return utils.JoinRepository(registry, name) + ":" + tag }),
	Repository:   eachRepoTag(func(registry, name, _ string) string { return utils.JoinRepository(registry, name) }),
	Size:         projectSize,
	Tag:          eachRepoTag(func(_, _, tag string) string { return tag }),
}

// Project returns the values of column c for img, computed afresh on every call.
// An unknown column is logged as an internal error and yields no values.
func Project(ctx context.Context, img *types.Image, c Column, f Formats) []string {
	if !c.Valid() || projectors[c] == nil {
		log.WithFunc("columns.Project").Errorf(ctx, errUnmappedColumn, "Internal error - unmapped column %s", c)
		return nil
	}
	return projectors[c](img, f)
}

func projectArchitecture(img *types.Image, f Formats) []string {
	arch := img.Architecture
	if arch == "" {
		arch = unknownArch
	}
	out := arch
	if img.Variant != "" {
		out = arch + "/" + img.Variant
	}
	if f.HighlightArchitecture && !strings.EqualFold(arch, f.hostArch()) {
		out = archHighlight.Sprint(out)
	}
	return []string{out}
}

func projectCreatedISO(img *types.Image, f Formats) []string {
	if img.Created.IsZero() {
		return nil
	}
	return []string{utils.FormatISOTime(img.Created, f.Location)}
}

func projectCreated(img *types.Image, f Formats) []string {
	if img.Created.IsZero() {
		return nil
	}
	return []string{utils.FormatRelativeTime(img.Created, f.now())}
}

func projectDigest(img *types.Image, f Formats) []string {
	out := make([]string, 0, len(img.RepoDigests))
	for _, ref := range img.RepoDigests {
		_, dgst := utils.SplitDigestRef(ref)
		out = append(out, utils.FormatDigest(dgst.String(), f.ShortDigest))
	}
	return out
}

func projectID(img *types.Image, f Formats) []string {
	return []string{utils.FormatDigest(img.ID, f.ShortDigest)}
}

func projectOS(img *types.Image, _ Formats) []string {
	return []string{img.Os}
}

func projectPlatform(img *types.Image, f Formats) []string {
	arch := projectArchitecture(img, f)
	os := projectOS(img, f)
	return []string{os[0] + "/" + arch[0]}
}

func projectSize(img *types.Image, _ Formats) []string {
	return []string{utils.FormatSize(img.Size)}
}

func eachRepoTag(pick func(registry, name, tag string) string) projector {
	return func(img *types.Image, _ Formats) []string {
		out := make([]string, 0, len(img.RepoTags))
		for _, rt := range img.RepoTags {
			out = append(out, pick(utils.SplitRepoTag(rt)))
		}
		return out
	}
}
