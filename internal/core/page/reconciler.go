// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

// # Targets

// Kind distinguishes published works from staged submissions.
type Kind int

const (
	Published Kind = iota
	Staged
)

func (kind Kind) String() string {
	if kind == Staged {
		return "pending_comic"
	}
	return "comic"
}

// Target is the record owning a page directory.
type Target struct {
	Kind      Kind
	ID        int64
	Name      string
	Pages     int
	Processed bool
}

// Mismatch is a work whose stored pages disagree with its record.
type Mismatch struct {
	Kind     Kind   `json:"-"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Recorded int    `json:"recorded"`
	Stored   int    `json:"stored"`
	Error    string `json:"error,omitempty"`
}

// Repository persists page counts on the owning record.
type Repository interface {
	// FindTarget loads the record of kind with id.
	FindTarget(context context.Context, kind Kind, id int64) (*Target, error)
	// SetPageCount stores count. Published works also get a new update time.
	SetPageCount(context context.Context, target Target, count int) error
	// MarkThumbnail flags a staged record as having a thumbnail and touches
	// the update time of a published one.
	MarkThumbnail(context context.Context, target Target) error
	// ListTargets returns every published work and every open submission.
	ListTargets(context context.Context) ([]Target, error)
}

// # Reconciler

// Reconciler runs page operations and writes the resulting count back to
// the owning record.
type Reconciler struct {
	store  *Store
	repo   Repository
	modlog modlog.Recorder
	logger *slog.Logger
}

// NewReconciler constructs a [Reconciler].
func NewReconciler(store *Store, repo Repository, recorder modlog.Recorder, logger *slog.Logger) *Reconciler {
	return &Reconciler{store: store, repo: repo, modlog: recorder, logger: logger}
}

// Append adds pages to a published work or an open submission.
func (reconciler *Reconciler) Append(context context.Context, viewer *sec.Viewer, kind Kind, id int64, files []Upload) (int, error) {
	target, err := reconciler.target(context, viewer, kind, id)
	if err != nil {
		return 0, err
	}

	count, err := reconciler.store.Append(context, target.Name, files)
	if err != nil {
		return 0, err
	}

	if err := reconciler.persist(context, *target, count); err != nil {
		return 0, err
	}

	reconciler.record(context, viewer, *target, fmt.Sprintf("Append %d pages to %s", len(files), target.Name), "")
	return count, nil
}

// InsertAfter inserts one page after page k of a published work.
func (reconciler *Reconciler) InsertAfter(context context.Context, viewer *sec.Viewer, id int64, k int, file Upload) (int, error) {
	target, err := reconciler.target(context, viewer, Published, id)
	if err != nil {
		return 0, err
	}

	count, err := reconciler.store.InsertAfter(context, target.Name, k, file)
	if err != nil {
		return 0, err
	}

	if err := reconciler.persist(context, *target, count); err != nil {
		return 0, err
	}

	reconciler.record(context, viewer, *target, "Insert page in "+target.Name, fmt.Sprintf("after page %d", k))
	return count, nil
}

// Delete removes page k of a published work.
func (reconciler *Reconciler) Delete(context context.Context, viewer *sec.Viewer, id int64, k int) (int, error) {
	target, err := reconciler.target(context, viewer, Published, id)
	if err != nil {
		return 0, err
	}

	count, err := reconciler.store.Delete(context, target.Name, k)
	if err != nil {
		return 0, err
	}

	if err := reconciler.persist(context, *target, count); err != nil {
		return 0, err
	}

	reconciler.record(context, viewer, *target, "Delete page in "+target.Name, fmt.Sprintf("page %d", k))
	return count, nil
}

// Swap exchanges pages a and b of a published work.
func (reconciler *Reconciler) Swap(context context.Context, viewer *sec.Viewer, id int64, a, b int) (int, error) {
	target, err := reconciler.target(context, viewer, Published, id)
	if err != nil {
		return 0, err
	}

	count, err := reconciler.store.Swap(context, target.Name, a, b)
	if err != nil {
		return 0, err
	}

	if err := reconciler.persist(context, *target, count); err != nil {
		return 0, err
	}

	reconciler.record(context, viewer, *target, "Swap pages in "+target.Name, fmt.Sprintf("%d <-> %d", a, b))
	return count, nil
}

// PutThumbnail replaces the thumbnail of a work or an open submission.
func (reconciler *Reconciler) PutThumbnail(context context.Context, viewer *sec.Viewer, kind Kind, id int64, file Upload) error {
	target, err := reconciler.target(context, viewer, kind, id)
	if err != nil {
		return err
	}

	if err := reconciler.store.PutThumbnail(context, target.Name, file); err != nil {
		return err
	}

	if err := reconciler.repo.MarkThumbnail(context, *target); err != nil {
		reconciler.logger.Error("thumbnail_flag_out_of_sync",
			slog.String("kind", target.Kind.String()),
			slog.Int64("id", target.ID),
			slog.Any("error", err),
		)
		return err
	}

	reconciler.record(context, viewer, *target, "Add thumbnail to "+target.Name, "")
	return nil
}

/*
Check compares the stored page count of every work and open submission
with its record. It never writes.

Returns:
  - []Mismatch: records that disagree with storage, or whose directory
    could not be read
  - error: only when the records themselves cannot be listed
*/
func (reconciler *Reconciler) Check(context context.Context) ([]Mismatch, error) {
	targets, err := reconciler.repo.ListTargets(context)
	if err != nil {
		return nil, err
	}

	mismatches := make([]Mismatch, 0)
	for _, target := range targets {
		stored, err := reconciler.store.Count(context, target.Name)
		if err != nil {
			mismatches = append(mismatches, Mismatch{
				Kind: target.Kind, ID: target.ID, Name: target.Name,
				Recorded: target.Pages, Stored: -1, Error: err.Error(),
			})
			continue
		}
		if stored != target.Pages {
			mismatches = append(mismatches, Mismatch{
				Kind: target.Kind, ID: target.ID, Name: target.Name,
				Recorded: target.Pages, Stored: stored,
			})
		}
	}

	return mismatches, nil
}

// # Internals

func (reconciler *Reconciler) target(context context.Context, viewer *sec.Viewer, kind Kind, id int64) (*Target, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return nil, err
	}

	target, err := reconciler.repo.FindTarget(context, kind, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			if kind == Staged {
				return nil, apperr.NotFound("Pending comic")
			}
			return nil, apperr.NotFound("Comic")
		}
		return nil, err
	}

	if kind == Staged && target.Processed {
		return nil, apperr.Conflict("This submission has already been processed")
	}
	return target, nil
}

// persist writes count to the record. Storage has already changed, so a
// failure here leaves the two out of sync; it is logged and surfaced.
func (reconciler *Reconciler) persist(context context.Context, target Target, count int) error {
	if err := reconciler.repo.SetPageCount(context, target, count); err != nil {
		reconciler.logger.Error("page_count_out_of_sync",
			slog.String("kind", target.Kind.String()),
			slog.Int64("id", target.ID),
			slog.String("work", target.Name),
			slog.Int("stored_pages", count),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func (reconciler *Reconciler) record(context context.Context, viewer *sec.Viewer, target Target, description, details string) {
	actionType := modlog.TypeComic
	if target.Kind == Staged {
		actionType = modlog.TypePendingComic
	}

	reconciler.modlog.Record(context, viewer.ID, modlog.Action{
		Type:        actionType,
		Description: description,
		Details:     details,
	})
}
