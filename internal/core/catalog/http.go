// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comicvault/internal/platform/constants"
	"github.com/taibuivan/comicvault/internal/platform/middleware"
	requestutil "github.com/taibuivan/comicvault/internal/platform/request"
	"github.com/taibuivan/comicvault/internal/platform/respond"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/pkg/pagination"
	"github.com/taibuivan/comicvault/pkg/query"
)

// # Handler Implementation

// Handler translates catalog HTTP requests into [Service] calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog endpoints on the /comics router.
//
// Page and keyword endpoints share the same prefix and are registered by
// their own packages.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listComics)
	router.Get("/{name}", handler.getComic)

	// Members
	router.With(middleware.RequireRole(sec.RoleMember)).Post("/{id}/rate", handler.rateComic)

	// Moderators
	router.With(middleware.RequireRole(sec.RoleModerator)).Patch("/{id}", handler.updateComic)
}

func (handler *Handler) listComics(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	page := pagination.FromRequest(request, constants.ComicsPerPage)

	listQuery := ListQuery{
		Filter: Filter{
			Categories: query.Strings(values, "categories"),
			Tags:       query.Strings(values, "tags"),
			KeywordIDs: query.Int64s(values, "keywordIds"),
			Search:     values.Get("search"),
			ArtistID:   query.Int64(values, "artistId"),
		},
		Order: Order(values.Get("order")),
		Page:  page.Page,
	}

	listing, err := handler.service.ListComics(request.Context(), requestutil.Viewer(request), listQuery)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listing.Comics, pagination.NewMeta(listing.Page, constants.ComicsPerPage, listing.Total))
}

func (handler *Handler) getComic(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetComic(request.Context(), requestutil.Viewer(request), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) updateComic(writer http.ResponseWriter, request *http.Request) {
	comicID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input DetailsUpdate
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateDetails(request.Context(), requestutil.Viewer(request), comicID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

type rateInput struct {
	Rating int `json:"rating"`
}

func (handler *Handler) rateComic(writer http.ResponseWriter, request *http.Request) {
	comicID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input rateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Rate(request.Context(), requestutil.Viewer(request), comicID, input.Rating); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
