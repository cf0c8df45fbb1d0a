// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comicvault/internal/core/page"
	"github.com/taibuivan/comicvault/internal/platform/middleware"
	requestutil "github.com/taibuivan/comicvault/internal/platform/request"
	"github.com/taibuivan/comicvault/internal/platform/respond"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/pkg/query"
)

// # Handler Implementation

// Handler exposes the submission workflow. Every route requires a moderator.
type Handler struct {
	service   *Service
	maxUpload int64
}

// NewHandler constructs a publication [Handler].
func NewHandler(service *Service, maxUpload int64) *Handler {
	return &Handler{service: service, maxUpload: maxUpload}
}

// RegisterRoutes mounts the endpoints on the /pending-comics router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))

		moderator.Get("/", handler.listPending)
		moderator.Get("/{name}", handler.getPending)
		moderator.Post("/", handler.submit)
		moderator.Post("/{id}/process", handler.process)
		moderator.Post("/{id}/keywords", handler.addKeywords)
		moderator.Delete("/{id}/keywords", handler.removeKeywords)
	})
}

type processInput struct {
	IsApproved bool `json:"is_approved"`
}

type processResponse struct {
	ComicID *int64 `json:"comic_id"`
}

type keywordsInput struct {
	KeywordIDs []int64 `json:"keyword_ids"`
}

type submitResponse struct {
	ID int64 `json:"id"`
}

func (handler *Handler) listPending(writer http.ResponseWriter, request *http.Request) {
	submissions, err := handler.service.ListPending(request.Context(), requestutil.Viewer(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, submissions)
}

func (handler *Handler) getPending(writer http.ResponseWriter, request *http.Request) {
	submission, err := handler.service.GetPending(request.Context(), requestutil.Viewer(request), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, submission)
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	cleanup, err := requestutil.ParseMultipart(writer, request, handler.maxUpload)
	defer cleanup()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	form := url.Values(request.MultipartForm.Value)
	draft := Draft{
		Name:          form.Get("name"),
		Cat:           form.Get("cat"),
		Tag:           form.Get("tag"),
		State:         form.Get("state"),
		ArtistID:      query.Int64(form, "artistId"),
		KeywordIDs:    query.Int64s(form, "keywordIds"),
		PreviousComic: optionalID(form, "previousComic"),
		NextComic:     optionalID(form, "nextComic"),
	}

	files, err := requestutil.Files(request, "pages")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	thumbnail, err := requestutil.OptionalFile(request, "thumbnail")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	uploads := make([]page.Upload, len(files))
	for i, file := range files {
		uploads[i] = page.Upload{Name: file.Name, Data: file.Data}
	}

	var thumbnailUpload *page.Upload
	if thumbnail != nil {
		thumbnailUpload = &page.Upload{Name: thumbnail.Name, Data: thumbnail.Data}
	}

	id, err := handler.service.Submit(request.Context(), requestutil.Viewer(request), draft, uploads, thumbnailUpload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, submitResponse{ID: id})
}

func (handler *Handler) process(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input processInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comicID, err := handler.service.Process(request.Context(), requestutil.Viewer(request), id, input.IsApproved)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	response := processResponse{}
	if comicID > 0 {
		response.ComicID = &comicID
	}
	respond.OK(writer, response)
}

func (handler *Handler) addKeywords(writer http.ResponseWriter, request *http.Request) {
	handler.editKeywords(writer, request, handler.service.AddKeywords)
}

func (handler *Handler) removeKeywords(writer http.ResponseWriter, request *http.Request) {
	handler.editKeywords(writer, request, handler.service.RemoveKeywords)
}

func (handler *Handler) editKeywords(writer http.ResponseWriter, request *http.Request, edit func(context.Context, *sec.Viewer, int64, []int64) error) {
	id, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input keywordsInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := edit(request.Context(), requestutil.Viewer(request), id, input.KeywordIDs); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// optionalID parses a positive id form value, or nil when absent.
func optionalID(form url.Values, key string) *int64 {
	if id := query.Int64(form, key); id > 0 {
		return &id
	}
	return nil
}
