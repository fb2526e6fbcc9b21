package images

import (
	"context"

	"github.com/projecteru2/bollard/types"
)

// Fetcher bulk-loads metadata records for canonical IDs or ID prefixes.
// It may return fewer records than requested; missing IDs are not an error.
type Fetcher interface {
	Fetch(ctx context.Context, ids []string) ([]*types.Image, error)
}

// Lister returns the universe of canonical image IDs, deduplicated in
// first-seen order.
type Lister interface {
	List(ctx context.Context, opts types.ListOptions) ([]string, error)
}

// Remover deletes one image and reports the untagged/deleted references.
type Remover interface {
	Remove(ctx context.Context, id string, force bool) ([]string, error)
}
