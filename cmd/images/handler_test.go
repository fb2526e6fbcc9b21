package images

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/bollard/columns"
	"github.com/projecteru2/bollard/types"
)

var (
	nginxID  = "sha256:" + strings.Repeat("a1", 32)
	alpineID = "sha256:" + strings.Repeat("b2", 32)
	danglyID = "sha256:" + strings.Repeat("c3", 32)
)

type fakeEngine struct {
	images   []*types.Image
	listErr  error
	listOpts []types.ListOptions
	removed  []string
	forced   bool
}

func (e *fakeEngine) Fetch(_ context.Context, ids []string) ([]*types.Image, error) {
	var out []*types.Image
	for _, id := range ids {
		for _, img := range e.images {
			if img.ID == id {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

func (e *fakeEngine) List(_ context.Context, opts types.ListOptions) ([]string, error) {
	e.listOpts = append(e.listOpts, opts)
	if e.listErr != nil {
		return nil, e.listErr
	}
	ids := make([]string, 0, len(e.images))
	for _, img := range e.images {
		ids = append(ids, img.ID)
	}
	return ids, nil
}

func (e *fakeEngine) Remove(_ context.Context, id string, force bool) ([]string, error) {
	e.removed = append(e.removed, id)
	e.forced = force
	return []string{"Deleted: " + id}, nil
}

func newFakeEngine() *fakeEngine {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &fakeEngine{images: []*types.Image{
		{
			ID:          nginxID,
			RepoTags:    []string{"nginx:stable", "public.ecr.aws/nginx/nginx:stable"},
			RepoDigests: []string{"nginx@sha256:" + strings.Repeat("d4", 32)},
			Created:     created,
			Size:        1000,
			Os:          "linux",
		},
		{
			ID:       alpineID,
			RepoTags: []string{"alpine:3.20"},
			Created:  created.Add(time.Hour),
			Size:     2000,
			Os:       "linux",
		},
		{ID: danglyID, Size: 3000, Os: "linux"},
	}}
}

func testFormats() columns.Formats {
	return columns.Formats{ShortDigest: true, Now: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
}

func outputLines(buf *bytes.Buffer) [][]string {
	var out [][]string
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		out = append(out, strings.Fields(line))
	}
	return out
}

func TestResolveColumns(t *testing.T) {
	ctx := context.Background()

	cols, err := resolveColumns(ctx, listOptions{})
	require.NoError(t, err)
	assert.Equal(t, []columns.Column{columns.ID, columns.Repository, columns.Tag, columns.Created, columns.Size}, cols)

	cols, err = resolveColumns(ctx, listOptions{defaults: []string{"compact"}, digests: true})
	require.NoError(t, err)
	assert.Equal(t, []columns.Column{columns.ID, columns.RepoTag, columns.Digest}, cols)

	cols, err = resolveColumns(ctx, listOptions{columns: []string{"arch", "os"}, digests: true, quiet: true})
	require.NoError(t, err)
	assert.Equal(t, []columns.Column{columns.ID}, cols)

	_, err = resolveColumns(ctx, listOptions{columns: []string{"bogus"}})
	assert.Error(t, err)
}

func TestResolveColumnsKeepsFlagSlice(t *testing.T) {
	given := make([]string, 1, 4)
	given[0] = "id"
	_, err := resolveColumns(context.Background(), listOptions{columns: given, digests: true})
	require.NoError(t, err)
	assert.Equal(t, "", given[:2][1])
}

func TestParseOrderBy(t *testing.T) {
	ctx := context.Background()
	cols := []columns.Column{columns.ID, columns.Size, columns.Architecture}

	c, desc, ok, err := parseOrderBy(ctx, "-size", cols)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, desc)
	assert.Equal(t, columns.Size, c)

	c, desc, ok, err = parseOrderBy(ctx, "arch", cols)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, desc)
	assert.Equal(t, columns.Architecture, c)

	_, _, ok, err = parseOrderBy(ctx, "tag", cols)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, ok, err = parseOrderBy(ctx, "", cols)
	require.NoError(t, err)
	assert.False(t, ok)

	c, desc, ok, err = parseOrderBy(ctx, "-SIZE", cols)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, desc)
	assert.Equal(t, columns.Size, c)

	_, _, _, err = parseOrderBy(ctx, "-nope", cols)
	assert.Error(t, err)
}

func TestListImagesSelectors(t *testing.T) {
	eng := newFakeEngine()
	var buf bytes.Buffer
	opts := listOptions{columns: []string{"id", "repo_tag"}, all: true, filters: []string{"dangling=false"}}
	require.NoError(t, listImages(context.Background(), &buf, eng, []string{"nginx"}, opts, testFormats()))

	assert.Equal(t, [][]string{
		{"ID", "REPO", "TAG"},
		{strings.Repeat("a1", 6), "nginx:stable"},
		{strings.Repeat("a1", 6), "public.ecr.aws/nginx/nginx:stable"},
	}, outputLines(&buf))
	require.Len(t, eng.listOpts, 1)
	assert.Equal(t, types.ListOptions{All: true, Filters: []string{"dangling=false"}}, eng.listOpts[0])
}

func TestListImagesOrderAndTop(t *testing.T) {
	eng := newFakeEngine()
	var buf bytes.Buffer
	opts := listOptions{columns: []string{"id", "size"}, orderBy: "-size"}
	require.NoError(t, listImages(context.Background(), &buf, eng, []string{"~2"}, opts, testFormats()))

	assert.Equal(t, [][]string{
		{"ID", "SIZE"},
		{strings.Repeat("c3", 6), "3kB"},
		{strings.Repeat("b2", 6), "2kB"},
	}, outputLines(&buf))
}

func TestListImagesNoMatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listImages(context.Background(), &buf, newFakeEngine(), []string{":missing"}, listOptions{quiet: true}, testFormats()))
	assert.Equal(t, [][]string{{"ID"}, {"no", "data"}}, outputLines(&buf))
}

func TestListImagesListerError(t *testing.T) {
	eng := newFakeEngine()
	eng.listErr = errors.New("daemon down")
	err := listImages(context.Background(), &bytes.Buffer{}, eng, nil, listOptions{}, testFormats())
	assert.ErrorIs(t, err, eng.listErr)
}

func TestRemoveImagesNeedsYes(t *testing.T) {
	eng := newFakeEngine()
	var buf bytes.Buffer
	require.NoError(t, removeImages(context.Background(), &buf, eng, []string{"alpine", "nginx"}, removeOptions{}, testFormats()))

	assert.Empty(t, eng.removed)
	out := buf.String()
	assert.Contains(t, out, "Would remove these images:")
	assert.Contains(t, out, strings.Repeat("a1", 6))
	assert.Contains(t, out, strings.Repeat("b2", 6))
	assert.NotContains(t, out, strings.Repeat("c3", 6))
	assert.Contains(t, out, "--yes")
}

func TestRemoveImagesWithYes(t *testing.T) {
	eng := newFakeEngine()
	var buf bytes.Buffer
	require.NoError(t, removeImages(context.Background(), &buf, eng, []string{":3.20"}, removeOptions{yes: true, force: true}, testFormats()))

	assert.Equal(t, []string{alpineID}, eng.removed)
	assert.True(t, eng.forced)
	assert.Contains(t, buf.String(), "Would remove this image:")
	assert.Contains(t, buf.String(), "Deleted: "+alpineID)
}

func TestRemoveImagesNothingSelected(t *testing.T) {
	eng := newFakeEngine()
	var buf bytes.Buffer
	require.NoError(t, removeImages(context.Background(), &buf, eng, []string{"redis"}, removeOptions{yes: true}, testFormats()))
	assert.Empty(t, eng.removed)
	assert.Contains(t, buf.String(), "No image to be removed")
}
