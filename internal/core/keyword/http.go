// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package keyword

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comicvault/internal/platform/middleware"
	requestutil "github.com/taibuivan/comicvault/internal/platform/request"
	"github.com/taibuivan/comicvault/internal/platform/respond"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

// Handler exposes keywords and published keyword memberships.
type Handler struct {
	service *Service
}

// NewHandler constructs a keyword [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts GET / and POST / under /keywords.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listKeywords)
	router.With(middleware.RequireRole(sec.RoleModerator)).Post("/", handler.createKeyword)

	return router
}

// RegisterComicRoutes mounts the membership endpoints on the /comics router.
func (handler *Handler) RegisterComicRoutes(router chi.Router) {
	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))

		moderator.Post("/{id}/keywords", handler.addToComic)
		moderator.Delete("/{id}/keywords", handler.removeFromComic)
	})
}

type createInput struct {
	Name string `json:"name"`
}

type membershipInput struct {
	KeywordIDs []int64 `json:"keyword_ids"`
}

func (handler *Handler) listKeywords(writer http.ResponseWriter, request *http.Request) {
	keywords, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, keywords)
}

func (handler *Handler) createKeyword(writer http.ResponseWriter, request *http.Request) {
	var input createInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	keyword, err := handler.service.Create(request.Context(), requestutil.Viewer(request), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, keyword)
}

func (handler *Handler) addToComic(writer http.ResponseWriter, request *http.Request) {
	handler.editMembership(writer, request, handler.service.AddToComic)
}

func (handler *Handler) removeFromComic(writer http.ResponseWriter, request *http.Request) {
	handler.editMembership(writer, request, handler.service.RemoveFromComic)
}

func (handler *Handler) editMembership(writer http.ResponseWriter, request *http.Request, edit func(context.Context, *sec.Viewer, int64, []int64) error) {
	comicID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input membershipInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := edit(request.Context(), requestutil.Viewer(request), comicID, input.KeywordIDs); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
