package images

import (
	"context"

	"github.com/projecteru2/bollard/selector"
)

// Filter narrows ids to images matching every selector (AND). Without
// selectors ids are returned unchanged; otherwise the result holds canonical IDs.
func (s *Store) Filter(ctx context.Context, ids []string, selectors []string, tr *selector.Translator) []string {
	if len(selectors) == 0 {
		return ids
	}
	imgs, _ := s.Resolve(ctx, ids)
	var out []string
	for _, img := range imgs {
		if tr.MatchAll(ctx, img, selectors) {
			out = append(out, img.ID)
		}
	}
	return out
}

// Pick selects from ids the images matching at least one selector (OR).
func (s *Store) Pick(ctx context.Context, ids []string, selectors []string, tr *selector.Translator) []string {
	imgs, _ := s.Resolve(ctx, ids)
	var out []string
	for _, img := range imgs {
		if tr.MatchAny(ctx, img, selectors) {
			out = append(out, img.ID)
		}
	}
	return out
}
