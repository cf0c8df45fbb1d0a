// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage is the filesystem collaborator holding page images.

Each work owns one directory under the storage root. Paths handed to a
[Storage] are relative to that root and use forward slashes.

Architecture:

  - Storage: the narrow contract the page store depends on.
  - FS: the afero-backed implementation (OS filesystem in production,
    memory filesystem in tests).
  - Error: every failure, carrying the operation and path for the logs.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/spf13/afero"
)

// # Contract

// Storage is the set of primitives the page store is built on.
type Storage interface {
	ListDir(ctx context.Context, dir string) ([]string, error)
	ReadFile(ctx context.Context, name string) ([]byte, error)
	WriteFile(ctx context.Context, name string, data []byte) error
	Rename(ctx context.Context, oldName, newName string) error
	Remove(ctx context.Context, name string) error
	MkdirAll(ctx context.Context, dir string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// # Errors

// Error is returned by every failing [FS] primitive.
type Error struct {
	Message string
	Path    string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Message, e.Path, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsNotExist reports whether err was caused by a missing file or directory.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// # Implementation

// FS implements [Storage] on top of an [afero.Fs].
type FS struct {
	fs afero.Fs
}

// NewFS roots fs at root. The root directory is created if missing.
func NewFS(fs afero.Fs, root string) (*FS, error) {
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, &Error{Message: "create root", Path: root, Cause: err}
	}
	return &FS{fs: afero.NewBasePathFs(fs, root)}, nil
}

// NewOS roots the real filesystem at root.
func NewOS(root string) (*FS, error) {
	return NewFS(afero.NewOsFs(), root)
}

// ListDir returns the sorted names of the entries in dir.
func (storage *FS) ListDir(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Message: "list", Path: dir, Cause: err}
	}

	entries, err := afero.ReadDir(storage.fs, clean(dir))
	if err != nil {
		return nil, &Error{Message: "list", Path: dir, Cause: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, nil
}

// ReadFile returns the contents of name.
func (storage *FS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Message: "read", Path: name, Cause: err}
	}

	data, err := afero.ReadFile(storage.fs, clean(name))
	if err != nil {
		return nil, &Error{Message: "read", Path: name, Cause: err}
	}
	return data, nil
}

// WriteFile creates or truncates name with data.
func (storage *FS) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return &Error{Message: "write", Path: name, Cause: err}
	}

	if err := afero.WriteFile(storage.fs, clean(name), data, 0o644); err != nil {
		return &Error{Message: "write", Path: name, Cause: err}
	}
	return nil
}

// Rename moves oldName to newName.
func (storage *FS) Rename(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Message: "rename", Path: oldName, Cause: err}
	}

	if err := storage.fs.Rename(clean(oldName), clean(newName)); err != nil {
		return &Error{Message: "rename to " + newName, Path: oldName, Cause: err}
	}
	return nil
}

// Remove deletes a single file.
func (storage *FS) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Message: "remove", Path: name, Cause: err}
	}

	if err := storage.fs.Remove(clean(name)); err != nil {
		return &Error{Message: "remove", Path: name, Cause: err}
	}
	return nil
}

// MkdirAll creates dir and any missing parents.
func (storage *FS) MkdirAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Message: "mkdir", Path: dir, Cause: err}
	}

	if err := storage.fs.MkdirAll(clean(dir), 0o755); err != nil {
		return &Error{Message: "mkdir", Path: dir, Cause: err}
	}
	return nil
}

// Exists reports whether name is present.
func (storage *FS) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &Error{Message: "stat", Path: name, Cause: err}
	}

	found, err := afero.Exists(storage.fs, clean(name))
	if err != nil {
		return false, &Error{Message: "stat", Path: name, Cause: err}
	}
	return found, nil
}

// clean anchors name at the root so BasePathFs never sees a relative escape.
func clean(name string) string {
	return path.Join("/", name)
}
