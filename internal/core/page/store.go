// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package page keeps each work's ordered page files consistent with its record.

Pages live in the work's directory as 001.jpg, 002.png, ... with no gaps.
Multi-file mutations are ordered so that no rename ever targets a name that
is still occupied:

  - insert shifts pages up, highest index first.
  - delete shifts pages down, lowest index first.
  - swap goes through a temporary name.

A failed step stops the operation and leaves the directory partially
shifted. The plan of every multi-rename operation is written to the journal
beforehand, so leftovers can be inspected.
*/
package page

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/google/uuid"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/journal"
	"github.com/taibuivan/comicvault/internal/platform/storage"
)

// # Collaborators

// Journal records rename plans before they run.
type Journal interface {
	Begin(work, operation string, renames []journal.Rename) (string, error)
	Complete(id string) error
}

// Upload is one uploaded image. Name orders a batch and carries the extension.
type Upload struct {
	Name string
	Data []byte
}

// # Store

// Store implements the ordered page operations on top of [storage.Storage].
type Store struct {
	storage storage.Storage
	journal Journal
	logger  *slog.Logger
}

// NewStore constructs a page [Store].
func NewStore(store storage.Storage, journal Journal, logger *slog.Logger) *Store {
	return &Store{storage: store, journal: journal, logger: logger}
}

// Sequence lists the pages of work ordered by index.
func (store *Store) Sequence(context context.Context, work string) ([]Page, error) {
	names, err := store.storage.ListDir(context, work)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, apperr.NotFound("Page directory")
		}
		return nil, apperr.Internal(err)
	}

	pages := make([]Page, 0, len(names))
	for _, name := range names {
		if page, ok := ParseName(name); ok {
			pages = append(pages, page)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	return pages, nil
}

// Count returns the number of pages currently stored for work.
func (store *Store) Count(context context.Context, work string) (int, error) {
	pages, err := store.Sequence(context, work)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

/*
CreateWork creates the directory of a new work and writes its first pages.

Returns:
  - int: the stored page count
  - error: Conflict when the directory already exists, ValidationError for
    an unsupported extension (checked before anything is written)
*/
func (store *Store) CreateWork(context context.Context, work string, files []Upload, thumbnail *Upload) (int, error) {
	exts, err := extensions(files)
	if err != nil {
		return 0, err
	}
	if thumbnail != nil {
		if err := checkThumbnail(thumbnail.Name); err != nil {
			return 0, err
		}
	}

	exists, err := store.storage.Exists(context, work)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	if exists {
		return 0, apperr.Conflict("A comic with this name already exists")
	}

	if err := store.storage.MkdirAll(context, work); err != nil {
		return 0, apperr.Internal(err)
	}

	if err := store.writeBatch(context, work, 1, files, exts); err != nil {
		return 0, err
	}

	if thumbnail != nil {
		if err := store.storage.WriteFile(context, path.Join(work, ThumbnailName), thumbnail.Data); err != nil {
			return 0, apperr.Internal(err)
		}
	}

	store.logger.Info("work_directory_created", slog.String("work", work), slog.Int("pages", len(files)))
	return store.Count(context, work)
}

/*
Append adds files after the last page.

Description: The batch is ordered by upload name (stable) and numbered from
the current count plus one. Every extension is checked before the first
write.
*/
func (store *Store) Append(context context.Context, work string, files []Upload) (int, error) {
	if len(files) == 0 {
		return 0, apperr.ValidationError("No pages uploaded")
	}

	exts, err := extensions(files)
	if err != nil {
		return 0, err
	}

	pages, err := store.Sequence(context, work)
	if err != nil {
		return 0, err
	}

	if err := store.writeBatch(context, work, len(pages)+1, files, exts); err != nil {
		return 0, err
	}

	store.logger.Info("pages_appended", slog.String("work", work), slog.Int("added", len(files)))
	return store.Count(context, work)
}

/*
InsertAfter writes file as the new page k+1.

Description: Pages k+1..N are renamed to k+2..N+1 starting from N, so a
rename never targets a name that has not moved yet. k = 0 inserts before
the first page.

Parameters:
  - context: context.Context
  - work: string
  - k: int in [0, N]
  - file: Upload

Returns:
  - int: N+1 on success
  - error: ValidationError for k out of range or an unsupported extension
*/
func (store *Store) InsertAfter(context context.Context, work string, k int, file Upload) (int, error) {
	ext, err := Extension(file.Name)
	if err != nil {
		return 0, err
	}

	pages, err := store.Sequence(context, work)
	if err != nil {
		return 0, err
	}
	if k < 0 || k > len(pages) {
		return 0, outOfRange("insert_after", 0, len(pages))
	}

	renames := make([]journal.Rename, 0, len(pages)-k)
	for i := len(pages); i > k; i-- {
		page := pages[i-1]
		renames = append(renames, journal.Rename{From: page.Name, To: FileName(i+1, page.Ext)})
	}

	err = store.run(context, work, "insert", renames, nil, func() error {
		return store.write(context, work, FileName(k+1, ext), file.Data)
	})
	if err != nil {
		return 0, err
	}

	store.logger.Info("page_inserted", slog.String("work", work), slog.Int("after", k))
	return store.Count(context, work)
}

/*
Delete removes page k and closes the gap.

Description: Pages k+1..N are renamed to k..N-1 starting from k+1.
*/
func (store *Store) Delete(context context.Context, work string, k int) (int, error) {
	pages, err := store.Sequence(context, work)
	if err != nil {
		return 0, err
	}
	if k < 1 || k > len(pages) {
		return 0, outOfRange("page", 1, len(pages))
	}

	target := pages[k-1]
	remove := func() error {
		if err := store.storage.Remove(context, path.Join(work, target.Name)); err != nil {
			return apperr.Internal(err)
		}
		return nil
	}

	renames := make([]journal.Rename, 0, len(pages)-k)
	for i := k + 1; i <= len(pages); i++ {
		page := pages[i-1]
		renames = append(renames, journal.Rename{From: page.Name, To: FileName(i-1, page.Ext)})
	}

	if err := store.run(context, work, "delete", renames, remove, nil); err != nil {
		return 0, err
	}

	store.logger.Info("page_deleted", slog.String("work", work), slog.Int("page", k))
	return store.Count(context, work)
}

/*
Swap exchanges pages a and b through a temporary name: a to temp, b to a,
temp to b. Each file keeps its own extension.
*/
func (store *Store) Swap(context context.Context, work string, a, b int) (int, error) {
	pages, err := store.Sequence(context, work)
	if err != nil {
		return 0, err
	}
	if a < 1 || a > len(pages) {
		return 0, outOfRange("page_a", 1, len(pages))
	}
	if b < 1 || b > len(pages) {
		return 0, outOfRange("page_b", 1, len(pages))
	}
	if a == b {
		return 0, apperr.ValidationError("Cannot swap a page with itself")
	}

	first, second := pages[a-1], pages[b-1]
	temp := fmt.Sprintf("swap-%s.%s", uuid.NewString(), first.Ext)

	renames := []journal.Rename{
		{From: first.Name, To: temp},
		{From: second.Name, To: FileName(a, second.Ext)},
		{From: temp, To: FileName(b, first.Ext)},
	}

	if err := store.run(context, work, "swap", renames, nil, nil); err != nil {
		return 0, err
	}

	store.logger.Info("pages_swapped", slog.String("work", work), slog.Int("page_a", a), slog.Int("page_b", b))
	return len(pages), nil
}

// PutThumbnail replaces the thumbnail of work. An existing one is removed first.
func (store *Store) PutThumbnail(context context.Context, work string, file Upload) error {
	if err := checkThumbnail(file.Name); err != nil {
		return err
	}

	name := path.Join(work, ThumbnailName)
	exists, err := store.storage.Exists(context, name)
	if err != nil {
		return apperr.Internal(err)
	}
	if exists {
		if err := store.storage.Remove(context, name); err != nil {
			return apperr.Internal(err)
		}
	}

	return store.write(context, work, ThumbnailName, file.Data)
}

// HasThumbnail reports whether work has a thumbnail file.
func (store *Store) HasThumbnail(context context.Context, work string) (bool, error) {
	exists, err := store.storage.Exists(context, path.Join(work, ThumbnailName))
	if err != nil {
		return false, apperr.Internal(err)
	}
	return exists, nil
}

// # Internals

// run journals renames, then applies before, the renames in order, and after.
// Optional steps may be nil. A failing before step leaves the directory
// untouched, so its entry is completed; otherwise the entry is only
// completed when every step succeeded.
func (store *Store) run(context context.Context, work, operation string, renames []journal.Rename, before, after func() error) error {
	var entryID string
	if len(renames) > 0 {
		id, err := store.journal.Begin(work, operation, renames)
		if err != nil {
			return apperr.Internal(err)
		}
		entryID = id
	}

	if before != nil {
		if err := before(); err != nil {
			store.complete(entryID)
			return err
		}
	}

	for _, rename := range renames {
		if err := store.storage.Rename(context, path.Join(work, rename.From), path.Join(work, rename.To)); err != nil {
			store.logger.Error("page_sequence_interrupted",
				slog.String("work", work),
				slog.String("operation", operation),
				slog.String("journal_id", entryID),
				slog.Any("error", err),
			)
			return apperr.Internal(err)
		}
	}

	if after != nil {
		if err := after(); err != nil {
			return err
		}
	}

	store.complete(entryID)
	return nil
}

func (store *Store) complete(entryID string) {
	if entryID == "" {
		return
	}
	if err := store.journal.Complete(entryID); err != nil {
		store.logger.Warn("page_journal_complete_failed", slog.String("journal_id", entryID), slog.Any("error", err))
	}
}

// writeBatch writes files sorted by name starting at index first.
func (store *Store) writeBatch(context context.Context, work string, first int, files []Upload, exts []string) error {
	order := make([]int, len(files))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return files[order[i]].Name < files[order[j]].Name })

	for position, i := range order {
		if err := store.write(context, work, FileName(first+position, exts[i]), files[i].Data); err != nil {
			return err
		}
	}
	return nil
}

func (store *Store) write(context context.Context, work, name string, data []byte) error {
	if err := store.storage.WriteFile(context, path.Join(work, name), data); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// extensions validates every upload before anything is written.
func extensions(files []Upload) ([]string, error) {
	exts := make([]string, len(files))
	for i, file := range files {
		ext, err := Extension(file.Name)
		if err != nil {
			return nil, err
		}
		exts[i] = ext
	}
	return exts, nil
}

func outOfRange(field string, low, high int) error {
	return apperr.ValidationError("Page index out of range", apperr.FieldError{
		Field:   field,
		Message: fmt.Sprintf("Must be between %d and %d", low, high),
	})
}
