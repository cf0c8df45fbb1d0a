// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package link maintains the previous/next sequence between works.

A link is a directed edge (first, last): "last" continues "first". Every
work has at most one incoming and one outgoing edge, enforced by unique
constraints on both columns.
*/
package link

import (
	"context"
	"log/slog"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
)

// # Data Access

// Repository defines the edge storage used by [Maintainer].
type Repository interface {
	// RedirectIncoming points the edge ending at workID to start at previousID.
	RedirectIncoming(context context.Context, workID, previousID int64) (int64, error)
	// RedirectOutgoing points the edge starting at workID to end at nextID.
	RedirectOutgoing(context context.Context, workID, nextID int64) (int64, error)
	// Insert creates the edge first -> last.
	Insert(context context.Context, firstID, lastID int64) error
	// DeleteIncoming removes the edge ending at workID, if any.
	DeleteIncoming(context context.Context, workID int64) error
	// DeleteOutgoing removes the edge starting at workID, if any.
	DeleteOutgoing(context context.Context, workID int64) error
	// Neighbors returns the names of the previous and next works, nil when absent.
	Neighbors(context context.Context, workID int64) (previous, next *string, err error)
}

// # Maintainer

// Maintainer applies neighbor updates with update-or-insert semantics.
type Maintainer struct {
	repo   Repository
	logger *slog.Logger
}

// NewMaintainer constructs a [Maintainer].
func NewMaintainer(repo Repository, logger *slog.Logger) *Maintainer {
	return &Maintainer{repo: repo, logger: logger}
}

/*
SetNeighbors makes previous and next the neighbors of workID.

Description: Each side is handled independently. An absent reference
deletes the existing edge on that side. A present reference first tries to
redirect the existing edge and inserts a new one when no edge was updated.

Parameters:
  - context: context.Context
  - workID: int64
  - previous: *int64 (nil removes the incoming edge)
  - next: *int64 (nil removes the outgoing edge)

Returns:
  - error: ValidationError for a self link, Conflict when the other work
    already has a neighbor on that side
*/
func (maintainer *Maintainer) SetNeighbors(context context.Context, workID int64, previous, next *int64) error {
	if (previous != nil && *previous == workID) || (next != nil && *next == workID) {
		return apperr.ValidationError("A comic cannot link to itself")
	}

	// Incoming edge: previous -> work
	if previous == nil {
		if err := maintainer.repo.DeleteIncoming(context, workID); err != nil {
			return err
		}
	} else {
		affected, err := maintainer.repo.RedirectIncoming(context, workID, *previous)
		if err != nil {
			return err
		}
		if affected == 0 {
			if err := maintainer.repo.Insert(context, *previous, workID); err != nil {
				return err
			}
		}
	}

	// Outgoing edge: work -> next
	if next == nil {
		if err := maintainer.repo.DeleteOutgoing(context, workID); err != nil {
			return err
		}
	} else {
		affected, err := maintainer.repo.RedirectOutgoing(context, workID, *next)
		if err != nil {
			return err
		}
		if affected == 0 {
			if err := maintainer.repo.Insert(context, workID, *next); err != nil {
				return err
			}
		}
	}

	maintainer.logger.Debug("comic_links_updated", slog.Int64("comic_id", workID))
	return nil
}

// Neighbors returns the names of the works before and after workID.
func (maintainer *Maintainer) Neighbors(context context.Context, workID int64) (previous, next *string, err error) {
	return maintainer.repo.Neighbors(context, workID)
}
