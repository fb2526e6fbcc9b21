package images

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/projecteru2/core/log"

	"github.com/projecteru2/bollard/types"
)

// ErrNotFound is returned by Lookup when no cached image matches the key.
var ErrNotFound = errors.New("no such image")

// Store caches image metadata by canonical ID for one invocation and
// resolves ID prefixes, memoizing each prefix once it has been resolved.
// Records are never invalidated. Store is safe for concurrent use; concurrent
// Resolve calls never fetch the same missing key twice.
type Store struct {
	fetcher Fetcher

	mu    sync.Mutex
	data  map[string]*types.Image
	keys  []string // insertion order, scanned for prefix matches
	alias map[string]string
	// inflight holds keys being fetched; the channel closes when the fetch lands.
	inflight map[string]chan struct{}
}

// NewStore creates an empty Store backed by fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		fetcher:  fetcher,
		data:     map[string]*types.Image{},
		alias:    map[string]string{},
		inflight: map[string]chan struct{}{},
	}
}

// Len returns the number of cached records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Lookup returns the cached record for a full ID or an ID prefix.
func (s *Store) Lookup(key string) (*types.Image, error) {
	hex, ok := ParseKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if img := s.lookupLocked(hex); img != nil {
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Resolve returns the records for ids in request order, one per canonical ID.
// Uncached keys are fetched in a single batch. Keys that are still unresolved
// afterwards are logged once each and returned as missing. Spellings of one
// key that differ only in case or the "sha256:" prefix count as one key.
// A failing fetch is treated as if it returned no records.
func (s *Store) Resolve(ctx context.Context, ids []string) ([]*types.Image, []string) {
	logger := log.WithFunc("images.Resolve")
	keys := dedupe(ids)

	if retry := s.fill(ctx, keys, true); len(retry) > 0 {
		s.fill(ctx, retry, false)
	}

	var (
		result  []*types.Image
		missing []string
		seen    = map[string]struct{}{}
	)
	s.mu.Lock()
	for _, key := range keys {
		var img *types.Image
		if hex, ok := ParseKey(key); ok {
			img = s.lookupLocked(hex)
		}
		if img == nil {
			missing = append(missing, key)
			continue
		}
		if _, ok := seen[img.ID]; ok {
			continue
		}
		seen[img.ID] = struct{}{}
		result = append(result, img)
	}
	s.mu.Unlock()

	for _, key := range missing {
		logger.Warnf(ctx, "No such image: %s", key)
	}
	return result, missing
}

// fill fetches the keys nobody is fetching and waits for the rest. With
// overlap set, a key also waits on an in-flight key it shares a prefix with;
// those keys are returned when they are still unresolved afterwards.
func (s *Store) fill(ctx context.Context, keys []string, overlap bool) []string {
	logger := log.WithFunc("images.fill")
	query, owned, waits, shared := s.plan(keys, overlap)
	if len(query) > 0 {
		fetched, err := s.fetcher.Fetch(ctx, query)
		if err != nil {
			logger.Warnf(ctx, "fetch %d images: %v", len(query), err)
			fetched = nil
		}
		s.commit(ctx, fetched, owned)
	}
	for _, ch := range waits {
		select {
		case <-ch:
		case <-ctx.Done():
		}
	}

	var retry []string
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range shared {
		hex, _ := ParseKey(key)
		if s.lookupLocked(hex) == nil {
			retry = append(retry, key)
		}
	}
	return retry
}

// plan splits keys into those this call must fetch and those already being
// fetched by another caller. Cached and malformed keys are skipped. shared
// lists the keys that wait on a different, prefix-related in-flight key.
func (s *Store) plan(keys []string, overlap bool) (query []string, owned map[string]chan struct{}, waits []chan struct{}, shared []string) {
	owned = map[string]chan struct{}{}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		hex, ok := ParseKey(key)
		if !ok || s.lookupLocked(hex) != nil {
			continue
		}
		if ch, ok := s.inflight[hex]; ok {
			waits = append(waits, ch)
			continue
		}
		if _, ok := owned[hex]; ok {
			continue
		}
		if overlap {
			if ch := s.overlappingLocked(hex, owned); ch != nil {
				waits = append(waits, ch)
				shared = append(shared, key)
				continue
			}
		}
		ch := make(chan struct{})
		s.inflight[hex] = ch
		owned[hex] = ch
		query = append(query, key)
	}
	return query, owned, waits, shared
}

// overlappingLocked returns the channel of another caller's in-flight key
// that is a prefix of hex or has hex as prefix.
func (s *Store) overlappingLocked(hex string, owned map[string]chan struct{}) chan struct{} {
	for other, ch := range s.inflight {
		if _, mine := owned[other]; mine {
			continue
		}
		if strings.HasPrefix(other, hex) || strings.HasPrefix(hex, other) {
			return ch
		}
	}
	return nil
}

// commit inserts fetched records and releases the keys owned by this fetch.
func (s *Store) commit(ctx context.Context, fetched []*types.Image, owned map[string]chan struct{}) {
	logger := log.WithFunc("images.commit")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, img := range fetched {
		if img == nil {
			continue
		}
		if err := s.insertLocked(img); err != nil {
			logger.Warnf(ctx, "skip record: %v", err)
		}
	}
	for hex, ch := range owned {
		delete(s.inflight, hex)
		close(ch)
	}
}

func (s *Store) insertLocked(img *types.Image) error {
	id := NewDigest(Digest(strings.ToLower(img.ID)).Hex())
	h, err := v1.NewHash(id.String())
	if err != nil {
		return fmt.Errorf("invalid image id %q: %w", img.ID, err)
	}
	if _, ok := s.data[h.Hex]; !ok {
		s.keys = append(s.keys, h.Hex)
	}
	s.data[h.Hex] = img
	return nil
}

func (s *Store) lookupLocked(hex string) *types.Image {
	if len(hex) == FullLength {
		return s.data[hex]
	}
	if full, ok := s.alias[hex]; ok {
		return s.data[full]
	}
	for _, full := range s.keys {
		if strings.HasPrefix(full, hex) {
			s.alias[hex] = full
			return s.data[full]
		}
	}
	return nil
}

// dedupe drops repeated keys, keeping the first spelling. Valid keys compare
// by their normalized hex, anything else by the raw string.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		norm := id
		if hex, ok := ParseKey(id); ok {
			norm = hex
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, id)
	}
	return out
}
