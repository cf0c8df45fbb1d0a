// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/comicvault/internal/core/catalog"
	"github.com/taibuivan/comicvault/internal/core/link"
	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/core/page"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/constants"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/validate"
	"github.com/taibuivan/comicvault/pkg/workname"
)

// KeywordInvalidator drops cached keyword listings. Approval publishes
// keyword memberships, so the cached counts go stale.
type KeywordInvalidator interface {
	Invalidate(context context.Context) error
}

// Service implements the submission workflow.
type Service struct {
	repo     Repository
	pages    *page.Store
	links    *link.Maintainer
	keywords KeywordInvalidator
	modlog   modlog.Recorder
	logger   *slog.Logger
}

// NewService constructs a publication [Service].
func NewService(repo Repository, pages *page.Store, links *link.Maintainer, keywords KeywordInvalidator, recorder modlog.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		pages:    pages,
		links:    links,
		keywords: keywords,
		modlog:   recorder,
		logger:   logger,
	}
}

// # Submission

/*
Submit stages a new work.

Description: Input and file extensions are validated before anything is
written. Pages (and the optional thumbnail) are written to the work's
final directory, then the staged record and its keywords are inserted.

Parameters:
  - context: context.Context
  - viewer: *sec.Viewer (moderator or above)
  - draft: Draft
  - files: []page.Upload (at least two)
  - thumbnail: *page.Upload (optional)

Returns:
  - int64: submission id
  - error: ValidationError, Conflict for a taken name
*/
func (service *Service) Submit(context context.Context, viewer *sec.Viewer, draft Draft, files []page.Upload, thumbnail *page.Upload) (int64, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return 0, err
	}

	draft.Name = workname.Normalize(draft.Name)
	draft.Cat = strings.TrimSpace(draft.Cat)
	draft.Tag = strings.TrimSpace(draft.Tag)

	validator := &validate.Validator{}
	validator.WorkName(FieldName, draft.Name).MaxLen(FieldName, draft.Name, constants.MaxNameLength)
	validator.Required(FieldCat, draft.Cat)
	validator.Required(FieldTag, draft.Tag)
	validator.OneOf(FieldState, draft.State, catalog.States...)
	validator.Positive(FieldArtistID, draft.ArtistID)
	validator.Custom(FieldPages, len(files) < 2, "Comic must have more than one page")
	if err := validator.Err(); err != nil {
		return 0, err
	}

	count, err := service.pages.CreateWork(context, draft.Name, files, thumbnail)
	if err != nil {
		return 0, err
	}

	id, err := service.repo.Create(context, Staged{
		Draft:         draft,
		ModeratorID:   viewer.ID,
		NumberOfPages: count,
		HasThumbnail:  thumbnail != nil,
	})
	if err != nil {
		service.logger.Error("pending_comic_files_orphaned",
			slog.String("work", draft.Name),
			slog.Int("pages", count),
			slog.Any("error", err),
		)
		return 0, err
	}

	service.modlog.Record(context, viewer.ID, modlog.Action{
		Type:        modlog.TypeCreateComic,
		Description: "Add " + draft.Name,
		Details:     fmt.Sprintf("%d pages, cat=%s tag=%s", count, draft.Cat, draft.Tag),
	})

	service.logger.Info("pending_comic_created", slog.Int64("pending_comic_id", id), slog.String("name", draft.Name))
	return id, nil
}

// # Review

/*
Process approves or rejects a submission. Both outcomes are terminal.

Description: Approval requires a thumbnail and at least one keyword; a
failed precondition writes nothing. After the approval unit commits, the
proposed neighbors are linked to the new work.

Returns:
  - int64: the new work id on approval, zero on rejection
  - error: NotFound, Conflict if already processed, ValidationError
*/
func (service *Service) Process(context context.Context, viewer *sec.Viewer, id int64, approve bool) (int64, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return 0, err
	}

	submission, err := service.open(context, id)
	if err != nil {
		return 0, err
	}

	if !approve {
		if err := service.repo.Reject(context, id); err != nil {
			return 0, err
		}
		service.record(context, viewer, "Reject "+submission.Name, "")
		service.logger.Info("pending_comic_rejected", slog.Int64("pending_comic_id", id))
		return 0, nil
	}

	if !submission.HasThumbnail {
		return 0, apperr.ValidationError("Comic must have a thumbnail before approval")
	}
	if len(submission.Keywords) == 0 {
		return 0, apperr.ValidationError("Comic must have at least one keyword before approval")
	}

	comicID, err := service.repo.Approve(context, id)
	if err != nil {
		return 0, err
	}

	if err := service.keywords.Invalidate(context); err != nil {
		service.logger.Warn("keyword_cache_invalidate_failed", slog.Int64("comic_id", comicID), slog.Any("error", err))
	}

	service.record(context, viewer, "Approve "+submission.Name, fmt.Sprintf("comic id %d", comicID))
	service.logger.Info("pending_comic_approved",
		slog.Int64("pending_comic_id", id),
		slog.Int64("comic_id", comicID),
	)

	if submission.PreviousComicID != nil || submission.NextComicID != nil {
		if err := service.links.SetNeighbors(context, comicID, submission.PreviousComicID, submission.NextComicID); err != nil {
			service.logger.Warn("pending_comic_links_failed", slog.Int64("comic_id", comicID), slog.Any("error", err))
			return comicID, err
		}
	}

	return comicID, nil
}

// ListPending returns every open submission.
func (service *Service) ListPending(context context.Context, viewer *sec.Viewer) ([]*Submission, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return nil, err
	}
	return service.repo.List(context)
}

// GetPending returns the open submission with name.
func (service *Service) GetPending(context context.Context, viewer *sec.Viewer, name string) (*Submission, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return nil, err
	}

	submission, err := service.repo.FindByName(context, workname.Normalize(name))
	if err != nil {
		return nil, notFound(err)
	}
	return submission, nil
}

// # Keywords

// AddKeywords proposes more keywords for an open submission.
func (service *Service) AddKeywords(context context.Context, viewer *sec.Viewer, id int64, keywordIDs []int64) error {
	submission, err := service.keywordTarget(context, viewer, id, keywordIDs)
	if err != nil {
		return err
	}

	if err := service.repo.AddKeywords(context, id, keywordIDs); err != nil {
		if apperr.IsConflict(err) {
			return apperr.Conflict(MsgKeywordsExist)
		}
		return err
	}

	service.record(context, viewer, fmt.Sprintf("Add %d keywords to %s", len(keywordIDs), submission.Name), joinIDs(keywordIDs))
	return nil
}

// RemoveKeywords withdraws proposed keywords from an open submission.
func (service *Service) RemoveKeywords(context context.Context, viewer *sec.Viewer, id int64, keywordIDs []int64) error {
	submission, err := service.keywordTarget(context, viewer, id, keywordIDs)
	if err != nil {
		return err
	}

	removed, err := service.repo.RemoveKeywords(context, id, keywordIDs)
	if err != nil {
		return err
	}

	service.record(context, viewer, fmt.Sprintf("Remove %d keywords from %s", removed, submission.Name), joinIDs(keywordIDs))
	return nil
}

// # Helpers

func (service *Service) keywordTarget(context context.Context, viewer *sec.Viewer, id int64, keywordIDs []int64) (*Submission, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.IDs(FieldKeywords, keywordIDs)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.open(context, id)
}

// open loads a submission that has not been processed yet.
func (service *Service) open(context context.Context, id int64) (*Submission, error) {
	submission, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, notFound(err)
	}
	if submission.Processed {
		return nil, apperr.Conflict(MsgProcessed)
	}
	return submission, nil
}

func (service *Service) record(context context.Context, viewer *sec.Viewer, description, details string) {
	service.modlog.Record(context, viewer.ID, modlog.Action{
		Type:        modlog.TypePendingComic,
		Description: description,
		Details:     details,
	})
}

func notFound(err error) error {
	if apperr.IsNotFound(err) {
		return apperr.NotFound("Pending comic")
	}
	return err
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
