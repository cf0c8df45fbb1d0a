// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/validate"
)

type Service struct {
	repo   Repository
	modlog modlog.Recorder
	logger *slog.Logger
}

func NewService(repo Repository, recorder modlog.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		modlog: recorder,
		logger: logger,
	}
}

func (service *Service) ListArtists(context context.Context, filter Filter, limit, offset int) ([]*Artist, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) GetArtist(context context.Context, id int64) (*Artist, error) {
	artist, err := service.repo.FindByID(context, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Artist")
		}
		return nil, err
	}
	return artist, nil
}

func (service *Service) CreateArtist(context context.Context, viewer *sec.Viewer, name string) (*Artist, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	artist, err := service.repo.Create(context, name)
	if err != nil {
		return nil, err
	}

	service.modlog.Record(context, viewer.ID, modlog.Action{Type: modlog.TypeArtist, Description: "Add " + artist.Name})
	service.logger.Info("artist_created", slog.Int64("artist_id", artist.ID), slog.String("name", artist.Name))
	return artist, nil
}

// UpdateArtist renames an artist. Works credited to it follow automatically.
func (service *Service) UpdateArtist(context context.Context, viewer *sec.Viewer, id int64, name string) (*Artist, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	previous, err := service.GetArtist(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repo.UpdateName(context, id, name); err != nil {
		return nil, err
	}

	service.modlog.Record(context, viewer.ID, modlog.Action{
		Type:        modlog.TypeArtist,
		Description: "Update " + name,
		Details:     previous.Name + " -> " + name,
	})
	service.logger.Info("artist_updated", slog.Int64("artist_id", id))

	previous.Name = name
	return previous, nil
}

func validateName(name string) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, maxNameLength)
	return validator.Err()
}
