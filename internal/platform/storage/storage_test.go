// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/platform/storage"
)

func newFS(t *testing.T) (*storage.FS, afero.Fs) {
	t.Helper()
	base := afero.NewMemMapFs()
	fs, err := storage.NewFS(base, "/comics")
	require.NoError(t, err)
	return fs, base
}

/*
TestFS_Primitives walks a file through write, list, rename, and remove.
*/
func TestFS_Primitives(t *testing.T) {
	ctx := context.Background()
	fs, base := newFS(t)

	require.NoError(t, fs.MkdirAll(ctx, "Dragon Tales"))
	require.NoError(t, fs.WriteFile(ctx, "Dragon Tales/002.jpg", []byte("b")))
	require.NoError(t, fs.WriteFile(ctx, "Dragon Tales/001.jpg", []byte("a")))

	names, err := fs.ListDir(ctx, "Dragon Tales")
	require.NoError(t, err)
	assert.Equal(t, []string{"001.jpg", "002.jpg"}, names)

	require.NoError(t, fs.Rename(ctx, "Dragon Tales/002.jpg", "Dragon Tales/003.jpg"))
	data, err := fs.ReadFile(ctx, "Dragon Tales/003.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data)

	// Paths are rooted under /comics on the base filesystem
	found, err := afero.Exists(base, "/comics/Dragon Tales/003.jpg")
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, fs.Remove(ctx, "Dragon Tales/001.jpg"))
	exists, err := fs.Exists(ctx, "Dragon Tales/001.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

/*
TestFS_Errors verifies failures are typed and keep their cause.
*/
func TestFS_Errors(t *testing.T) {
	ctx := context.Background()
	fs, _ := newFS(t)

	_, err := fs.ReadFile(ctx, "missing/001.jpg")
	require.Error(t, err)

	var storageError *storage.Error
	require.True(t, errors.As(err, &storageError))
	assert.Equal(t, "missing/001.jpg", storageError.Path)
	assert.True(t, storage.IsNotExist(err))
}

func TestFS_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs, _ := newFS(t)
	err := fs.MkdirAll(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFS_NoEscape(t *testing.T) {
	ctx := context.Background()
	fs, base := newFS(t)

	require.NoError(t, fs.WriteFile(ctx, "../outside.jpg", []byte("x")))

	outside, err := afero.Exists(base, "/outside.jpg")
	require.NoError(t, err)
	assert.False(t, outside)
}
