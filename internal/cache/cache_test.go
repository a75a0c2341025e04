// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doi-finder/pkg/types"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), dbFile))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dirs", dbFile)

	c, err := Open(path)
	require.NoError(t, err)
	defer c.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, path, c.Path())
}

func TestPutGetRoundTrip(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	want := types.Match{
		DOI:    "10.1103/PhysRevE.76.021306",
		Title:  "Approach to jamming in an air-fluidized granular bed",
		Score:  112.4,
		Source: "crossref",
	}
	require.NoError(t, c.Put(ctx, "Abate, A. R., and D. J. Durian, 2007", want))

	got, ok, err := c.Get(ctx, "Abate, A. R., and D. J. Durian, 2007")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGetMissing(t *testing.T) {
	c := testCache(t)

	_, ok, err := c.Get(context.Background(), "never seen before")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetNormalizesQuery(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	m := types.Match{DOI: "10.1/a", Source: "crossref"}
	require.NoError(t, c.Put(ctx, "Abate,  A. R.,\tand D. J. Durian", m))

	// Case and whitespace differences map to the same entry.
	got, ok, err := c.Get(ctx, "  abate, a. r., AND d. j. durian ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10.1/a", got.DOI)
}

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Abate, A. R.", "abate, a. r."},
		{"  lots   of\t\tspace  ", "lots of space"},
		{"MiXeD Case", "mixed case"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Key(tt.in), "Key(%q)", tt.in)
	}
}

func TestPutRejectsMatchWithoutDOI(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	assert.Error(t, c.Put(ctx, "some query", types.Match{}))
	assert.Error(t, c.Put(ctx, "some query", types.Match{DOI: types.NotFoundDOI}))

	_, ok, err := c.Get(ctx, "some query")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutReplacesExistingEntry(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "query", types.Match{DOI: "10.1/old", Source: "crossref"}))
	require.NoError(t, c.Put(ctx, "query", types.Match{DOI: "10.1/new", Source: "crossref"}))

	got, ok, err := c.Get(ctx, "query")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10.1/new", got.DOI)

	info, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Entries)
}

func TestStats(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	info, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Entries)
	assert.True(t, info.Newest.IsZero())

	require.NoError(t, c.Put(ctx, "first", types.Match{DOI: "10.1/a"}))
	require.NoError(t, c.Put(ctx, "second", types.Match{DOI: "10.1/b"}))

	info, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Entries)
	assert.WithinDuration(t, time.Now(), info.Newest, time.Minute)
}

func TestClear(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "first", types.Match{DOI: "10.1/a"}))
	require.NoError(t, c.Put(ctx, "second", types.Match{DOI: "10.1/b"}))

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok, err := c.Get(ctx, "first")
	require.NoError(t, err)
	assert.False(t, ok)

	info, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Entries)
}

func TestPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), dbFile)
	ctx := context.Background()

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "query", types.Match{DOI: "10.1/a", Source: "crossref"}))
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	got, ok, err := c.Get(ctx, "query")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10.1/a", got.DOI)
}
