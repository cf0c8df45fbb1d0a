// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comicvault/internal/platform/journal"
	"github.com/taibuivan/comicvault/internal/platform/middleware"
	requestutil "github.com/taibuivan/comicvault/internal/platform/request"
	"github.com/taibuivan/comicvault/internal/platform/respond"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/validate"
)

// JournalReader lists leftover rename plans.
type JournalReader interface {
	Pending() ([]journal.Entry, error)
}

// # Handler Implementation

// Handler exposes page operations for works and submissions.
type Handler struct {
	reconciler *Reconciler
	journal    JournalReader
	maxUpload  int64
}

// NewHandler constructs a page [Handler]. maxUpload caps multipart bodies.
func NewHandler(reconciler *Reconciler, journal JournalReader, maxUpload int64) *Handler {
	return &Handler{reconciler: reconciler, journal: journal, maxUpload: maxUpload}
}

// countResponse reports the page count after a mutation.
type countResponse struct {
	NumberOfPages int `json:"number_of_pages"`
}

type swapInput struct {
	PageA int `json:"page_a"`
	PageB int `json:"page_b"`
}

// RegisterComicRoutes mounts page endpoints on the /comics router.
func (handler *Handler) RegisterComicRoutes(router chi.Router) {
	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))

		moderator.Post("/{id}/pages", handler.appendPages(Published))
		moderator.Post("/{id}/pages/insert", handler.insertPage)
		moderator.Post("/{id}/pages/swap", handler.swapPages)
		moderator.Delete("/{id}/pages/{page}", handler.deletePage)
		moderator.Post("/{id}/thumbnail", handler.putThumbnail(Published))
	})
}

// RegisterPendingRoutes mounts page endpoints on the /pending-comics router.
func (handler *Handler) RegisterPendingRoutes(router chi.Router) {
	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))

		moderator.Post("/{id}/pages", handler.appendPages(Staged))
		moderator.Post("/{id}/thumbnail", handler.putThumbnail(Staged))
	})
}

// JournalRoutes returns the admin router listing leftover rename plans.
func (handler *Handler) JournalRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))
	router.Get("/", handler.listJournal)
	return router
}

func (handler *Handler) appendPages(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id, err := requestutil.Int64(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		cleanup, err := requestutil.ParseMultipart(writer, request, handler.maxUpload)
		defer cleanup()
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		files, err := requestutil.Files(request, "newPages")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		count, err := handler.reconciler.Append(request.Context(), requestutil.Viewer(request), kind, id, uploads(files))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, countResponse{NumberOfPages: count})
	}
}

func (handler *Handler) insertPage(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cleanup, err := requestutil.ParseMultipart(writer, request, handler.maxUpload)
	defer cleanup()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	after, err := strconv.Atoi(request.FormValue("insertAfter"))
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("insertAfter", "Must be a page number"))
		return
	}

	file, err := requestutil.OptionalFile(request, "newPageFile")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if file == nil {
		respond.Error(writer, request, validate.RequiredError("newPageFile", "This field is required"))
		return
	}

	count, err := handler.reconciler.InsertAfter(request.Context(), requestutil.Viewer(request), id, after, Upload{Name: file.Name, Data: file.Data})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, countResponse{NumberOfPages: count})
}

func (handler *Handler) swapPages(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input swapInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.reconciler.Swap(request.Context(), requestutil.Viewer(request), id, input.PageA, input.PageB)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, countResponse{NumberOfPages: count})
}

func (handler *Handler) deletePage(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	number, err := requestutil.Int64(request, "page")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.reconciler.Delete(request.Context(), requestutil.Viewer(request), id, int(number))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, countResponse{NumberOfPages: count})
}

func (handler *Handler) putThumbnail(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id, err := requestutil.Int64(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		cleanup, err := requestutil.ParseMultipart(writer, request, handler.maxUpload)
		defer cleanup()
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		file, err := requestutil.OptionalFile(request, "thumbnail")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if file == nil {
			respond.Error(writer, request, validate.RequiredError("thumbnail", "This field is required"))
			return
		}

		if err := handler.reconciler.PutThumbnail(request.Context(), requestutil.Viewer(request), kind, id, Upload{Name: file.Name, Data: file.Data}); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}

func (handler *Handler) listJournal(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.journal.Pending()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

// uploads converts multipart files into page uploads, keeping client order.
func uploads(files []requestutil.File) []Upload {
	out := make([]Upload, len(files))
	for i, file := range files {
		out[i] = Upload{Name: file.Name, Data: file.Data}
	}
	return out
}
