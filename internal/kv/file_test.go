package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSetGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "forum-data.json")

	f, err := NewFile(path)
	require.NoError(t, err)

	_, ok, err := f.Get(ctx, "forum:topics:v1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, f.Set(ctx, "forum:topics:v1", []byte(`[{"slug":"cycle"}]`)))
	require.NoError(t, f.Set(ctx, "forum:posts:cycle", []byte(`[]`)))

	val, ok, err := f.Get(ctx, "forum:topics:v1")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[{"slug":"cycle"}]`, string(val))
}

func TestFileSurvivesReopen(t *testing.T) {
	// A new File over the same path models a process restart.
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "forum-data.json")

	f1, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f1.Set(ctx, "k", []byte(`"v"`)))

	f2, err := NewFile(path)
	require.NoError(t, err)
	val, ok, err := f2.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `"v"`, string(val))
}

func TestFileToleratesCorruptDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "forum-data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	f, err := NewFile(path)
	require.NoError(t, err)

	_, ok, err := f.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// Writes recover the document.
	require.NoError(t, f.Set(ctx, "k", []byte(`1`)))
	val, ok, err := f.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `1`, string(val))
}

func TestFileCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "forum-data.json")
	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(context.Background(), "k", []byte(`true`)))
}
