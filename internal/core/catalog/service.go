// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/comicvault/internal/core/link"
	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/constants"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/storage"
	"github.com/taibuivan/comicvault/internal/platform/validate"
	"github.com/taibuivan/comicvault/pkg/pagination"
	"github.com/taibuivan/comicvault/pkg/workname"
)

// # Service

// Service implements catalog discovery and work editing.
type Service struct {
	repo    Repository
	links   *link.Maintainer
	storage storage.Storage
	modlog  modlog.Recorder
	logger  *slog.Logger
}

// NewService constructs a catalog [Service].
func NewService(repo Repository, links *link.Maintainer, store storage.Storage, recorder modlog.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		links:   links,
		storage: store,
		modlog:  recorder,
		logger:  logger,
	}
}

// # Discovery

/*
ListComics returns one page of the catalog.

Description: The order is validated first; viewer rating order silently
falls back to recency for anonymous viewers. Rows and the distinct match
count come from the same filter, so TotalPages always agrees with the
listing.

Parameters:
  - context: context.Context
  - viewer: *sec.Viewer (nil for anonymous)
  - query: ListQuery (ViewerID is overwritten from viewer)

Returns:
  - *Listing: at most [constants.ComicsPerPage] rows
  - error: ValidationError for an unknown order or page below 1
*/
func (service *Service) ListComics(context context.Context, viewer *sec.Viewer, query ListQuery) (*Listing, error) {
	if query.Order == "" {
		query.Order = OrderRecency
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldOrder, string(query.Order),
		string(OrderRecency), string(OrderAggregateRating), string(OrderViewerRating))
	validator.Custom("page", query.Page < 1, "Must be at least 1")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	query.ViewerID = 0
	if viewer != nil {
		query.ViewerID = viewer.ID
	}

	comics, err := service.repo.List(context, query)
	if err != nil {
		return nil, err
	}

	total, err := service.repo.Count(context, query.Filter)
	if err != nil {
		return nil, err
	}

	return &Listing{
		Comics:     comics,
		Page:       query.Page,
		Total:      total,
		TotalPages: pagination.TotalPages(total, constants.ComicsPerPage),
	}, nil
}

// GetComic returns a single work by name with its keywords and neighbors.
func (service *Service) GetComic(context context.Context, viewer *sec.Viewer, name string) (*Detail, error) {
	var viewerID int64
	if viewer != nil {
		viewerID = viewer.ID
	}

	detail, err := service.repo.FindByName(context, workname.Normalize(name), viewerID)
	if err != nil {
		return nil, notFoundAs(err, "Comic")
	}

	detail.PreviousComic, detail.NextComic, err = service.links.Neighbors(context, detail.ID)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// # Editing

/*
UpdateDetails rewrites a work's attributes and its sequence neighbors.

Description: When the name changes the storage directory is renamed first,
then the record is updated. A failed record update moves the directory
back on a best-effort basis. Neighbors are applied last.

Parameters:
  - context: context.Context
  - viewer: *sec.Viewer (moderator or above)
  - id: int64
  - update: DetailsUpdate

Returns:
  - error: ValidationError, NotFound, Conflict for a taken name
*/
func (service *Service) UpdateDetails(context context.Context, viewer *sec.Viewer, id int64, update DetailsUpdate) error {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return err
	}

	update.Name = workname.Normalize(update.Name)
	update.Cat = strings.TrimSpace(update.Cat)
	update.Tag = strings.TrimSpace(update.Tag)
	update.Artist = strings.TrimSpace(update.Artist)

	validator := &validate.Validator{}
	validator.WorkName(FieldName, update.Name).MaxLen(FieldName, update.Name, constants.MaxNameLength)
	validator.Required(FieldCat, update.Cat)
	validator.Required(FieldTag, update.Tag)
	validator.Required(FieldArtist, update.Artist)
	validator.OneOf(FieldState, string(update.State), States...)
	if err := validator.Err(); err != nil {
		return err
	}

	current, err := service.repo.FindRef(context, id)
	if err != nil {
		return notFoundAs(err, "Comic")
	}

	renamed := current.Name != update.Name
	if renamed {
		if err := service.moveDirectory(context, current.Name, update.Name); err != nil {
			return err
		}
	}

	if err := service.repo.UpdateDetails(context, id, update); err != nil {
		if renamed {
			service.restoreDirectory(context, update.Name, current.Name)
		}
		return err
	}

	if err := service.links.SetNeighbors(context, id, update.PreviousComic, update.NextComic); err != nil {
		return err
	}

	service.modlog.Record(context, viewer.ID, modlog.Action{
		Type:        modlog.TypeComic,
		Description: "Update details of " + update.Name,
		Details:     fmt.Sprintf("cat=%s tag=%s state=%s artist=%s", update.Cat, update.Tag, update.State, update.Artist),
	})

	service.logger.Info("comic_details_updated",
		slog.Int64("comic_id", id),
		slog.Bool("renamed", renamed),
	)
	return nil
}

// Rate stores the viewer's score for a work. A zero score clears the vote.
func (service *Service) Rate(context context.Context, viewer *sec.Viewer, id int64, score int) error {
	if err := sec.Require(viewer, sec.RoleMember); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.Range(FieldRating, score, 0, constants.MaxRating)
	if err := validator.Err(); err != nil {
		return err
	}

	if _, err := service.repo.FindRef(context, id); err != nil {
		return notFoundAs(err, "Comic")
	}

	if err := service.repo.SetVote(context, id, viewer.ID, score); err != nil {
		return err
	}

	service.logger.Debug("comic_rated", slog.Int64("comic_id", id), slog.Int("score", score))
	return nil
}

// # Helpers

// moveDirectory renames a work's storage directory, refusing to overwrite.
func (service *Service) moveDirectory(context context.Context, from, to string) error {
	taken, err := service.storage.Exists(context, to)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.Conflict("A comic with this name already exists")
	}

	if err := service.storage.Rename(context, from, to); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (service *Service) restoreDirectory(context context.Context, from, to string) {
	if err := service.storage.Rename(context, from, to); err != nil {
		service.logger.Error("comic_directory_out_of_sync",
			slog.String("directory", from),
			slog.String("record_name", to),
			slog.Any("error", err),
		)
	}
}

// notFoundAs replaces the generic not-found error with a named one.
func notFoundAs(err error, resource string) error {
	if apperr.IsNotFound(err) {
		return apperr.NotFound(resource)
	}
	return err
}
