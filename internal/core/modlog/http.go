// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package modlog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comicvault/internal/platform/middleware"
	requestutil "github.com/taibuivan/comicvault/internal/platform/request"
	"github.com/taibuivan/comicvault/internal/platform/respond"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

// Handler exposes the moderator log.
type Handler struct {
	service *Service
}

// NewHandler constructs a modlog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes adds GET /modlog and GET /modscores to the versioned router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))

		moderator.Get("/modlog", handler.listEntries)
		moderator.Get("/modscores", handler.listScores)
	})
}

func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.service.List(request.Context(), requestutil.Viewer(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

func (handler *Handler) listScores(writer http.ResponseWriter, request *http.Request) {
	scores, err := handler.service.Scores(request.Context(), requestutil.Viewer(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, scores)
}
