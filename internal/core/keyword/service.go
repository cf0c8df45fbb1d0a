// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package keyword

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/validate"
)

// MsgMembershipExists is returned when any added keyword is already on the work.
const MsgMembershipExists = "Some keywords already exist on this comic"

// Service manages keywords and published memberships.
type Service struct {
	repo   Repository
	cache  Cache
	modlog modlog.Recorder
	logger *slog.Logger
}

// NewService constructs a keyword [Service].
func NewService(repo Repository, cache Cache, recorder modlog.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, modlog: recorder, logger: logger}
}

/*
List returns every keyword with its usage count.

Description: Served from the cache when warm. Cache errors degrade to a
direct query and are only logged.
*/
func (service *Service) List(context context.Context) ([]*Keyword, error) {
	keywords, ok, err := service.cache.Get(context)
	if err != nil {
		service.logger.Warn("keyword_cache_read_failed", slog.Any("error", err))
	}
	if ok {
		return keywords, nil
	}

	keywords, err = service.repo.List(context)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, keywords); err != nil {
		service.logger.Warn("keyword_cache_write_failed", slog.Any("error", err))
	}
	return keywords, nil
}

// Create adds a keyword. A taken name is a Conflict.
func (service *Service) Create(context context.Context, viewer *sec.Viewer, name string) (*Keyword, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 100)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	keyword, err := service.repo.Create(context, name)
	if err != nil {
		return nil, err
	}

	service.invalidate(context)
	service.record(context, viewer, "Add "+keyword.Name, "")

	service.logger.Info("keyword_created", slog.Int64("keyword_id", keyword.ID), slog.String("name", keyword.Name))
	return keyword, nil
}

// AddToComic attaches keywords to a published work. Nothing is added when
// any of them is already attached.
func (service *Service) AddToComic(context context.Context, viewer *sec.Viewer, comicID int64, keywordIDs []int64) error {
	name, err := service.target(context, viewer, comicID, keywordIDs)
	if err != nil {
		return err
	}

	if err := service.repo.AddToComic(context, comicID, keywordIDs); err != nil {
		if apperr.IsConflict(err) {
			return apperr.Conflict(MsgMembershipExists)
		}
		return err
	}

	service.invalidate(context)
	service.record(context, viewer, fmt.Sprintf("Add %d keywords to %s", len(keywordIDs), name), joinIDs(keywordIDs))
	return nil
}

// RemoveFromComic detaches keywords from a published work.
func (service *Service) RemoveFromComic(context context.Context, viewer *sec.Viewer, comicID int64, keywordIDs []int64) error {
	name, err := service.target(context, viewer, comicID, keywordIDs)
	if err != nil {
		return err
	}

	removed, err := service.repo.RemoveFromComic(context, comicID, keywordIDs)
	if err != nil {
		return err
	}

	service.invalidate(context)
	service.record(context, viewer, fmt.Sprintf("Remove %d keywords from %s", removed, name), joinIDs(keywordIDs))
	return nil
}

// # Helpers

func (service *Service) target(context context.Context, viewer *sec.Viewer, comicID int64, keywordIDs []int64) (string, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return "", err
	}

	validator := &validate.Validator{}
	validator.IDs(FieldKeywordIDs, keywordIDs)
	if err := validator.Err(); err != nil {
		return "", err
	}

	name, err := service.repo.ComicName(context, comicID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound("Comic")
		}
		return "", err
	}
	return name, nil
}

func (service *Service) invalidate(context context.Context) {
	if err := service.cache.Invalidate(context); err != nil {
		service.logger.Warn("keyword_cache_invalidate_failed", slog.Any("error", err))
	}
}

func (service *Service) record(context context.Context, viewer *sec.Viewer, description, details string) {
	service.modlog.Record(context, viewer.ID, modlog.Action{
		Type:        modlog.TypeKeyword,
		Description: description,
		Details:     details,
	})
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
