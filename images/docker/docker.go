// Package docker implements the image fetch, list and remove collaborators
// on top of the Docker Engine API.
package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/projecteru2/core/log"
	"golang.org/x/sync/errgroup"

	"github.com/projecteru2/bollard/images"
	"github.com/projecteru2/bollard/types"
)

var (
	_ images.Fetcher = (*Engine)(nil)
	_ images.Lister  = (*Engine)(nil)
	_ images.Remover = (*Engine)(nil)
)

// Engine talks to a Docker daemon.
type Engine struct {
	client   *client.Client
	poolSize int
}

// New creates an Engine. An empty host falls back to DOCKER_HOST and friends.
func New(host string, poolSize int) (*Engine, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return NewWithClient(cli, poolSize), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(cli *client.Client, poolSize int) *Engine {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &Engine{client: cli, poolSize: poolSize}
}

// Close releases the underlying transport.
func (e *Engine) Close() error {
	return e.client.Close()
}

// Fetch inspects ids concurrently. Unknown ids are skipped, so the result
// may be shorter than the request; it keeps request order.
func (e *Engine) Fetch(ctx context.Context, ids []string) ([]*types.Image, error) {
	logger := log.WithFunc("docker.Fetch")
	slots := make([]*types.Image, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.poolSize)
	for i, id := range ids {
		g.Go(func() error {
			resp, err := e.client.ImageInspect(gctx, id)
			if err != nil {
				if cerrdefs.IsNotFound(err) {
					logger.Debugf(gctx, "inspect %s: not found", id)
					return nil
				}
				return fmt.Errorf("inspect %s: %w", id, err)
			}
			slots[i] = toImage(resp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*types.Image, 0, len(slots))
	for _, img := range slots {
		if img != nil {
			out = append(out, img)
		}
	}
	return out, nil
}

// List returns image IDs, deduplicated in first-seen order.
func (e *Engine) List(ctx context.Context, opts types.ListOptions) ([]string, error) {
	args, err := parseFilters(opts.Filters)
	if err != nil {
		return nil, err
	}
	summaries, err := e.client.ImageList(ctx, image.ListOptions{All: opts.All, Filters: args})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	seen := make(map[string]struct{}, len(summaries))
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// Remove deletes an image and returns what the daemon untagged or deleted.
func (e *Engine) Remove(ctx context.Context, id string, force bool) ([]string, error) {
	resp, err := e.client.ImageRemove(ctx, id, image.RemoveOptions{Force: force, PruneChildren: true})
	if err != nil {
		return nil, fmt.Errorf("remove %s: %w", id, err)
	}
	var refs []string
	for _, r := range resp {
		if r.Untagged != "" {
			refs = append(refs, "Untagged: "+r.Untagged)
		}
		if r.Deleted != "" {
			refs = append(refs, "Deleted: "+r.Deleted)
		}
	}
	return refs, nil
}

func parseFilters(exprs []string) (filters.Args, error) {
	args := filters.NewArgs()
	for _, expr := range exprs {
		key, value, ok := strings.Cut(expr, "=")
		if !ok || key == "" {
			return args, fmt.Errorf("bad filter %q: expected name=value", expr)
		}
		args.Add(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value))
	}
	return args, nil
}

func toImage(resp image.InspectResponse) *types.Image {
	created, _ := time.Parse(time.RFC3339Nano, resp.Created)
	return &types.Image{
		ID:           resp.ID,
		RepoTags:     resp.RepoTags,
		RepoDigests:  resp.RepoDigests,
		Created:      created,
		Size:         resp.Size,
		Architecture: resp.Architecture,
		Variant:      resp.Variant,
		Os:           resp.Os,
	}
}
