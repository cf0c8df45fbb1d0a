// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/ctxutil"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Viewer resolves the caller into a [*sec.Viewer], or nil for anonymous requests.
*/
func Viewer(request *http.Request) *sec.Viewer {
	return ctxutil.GetViewer(request.Context())
}

/*
Int64 parses a named URL parameter as a positive integer id.

Returns:
  - int64: The parsed id
  - error: apperr.ValidationError naming the parameter when it is not a positive integer
*/
func Int64(request *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return value, nil
}

// # Multipart Uploads

// File is one uploaded file held in memory.
type File struct {
	Name string
	Data []byte
}

/*
ParseMultipart parses a multipart body capped at maxBytes.

Callers must invoke the returned cleanup once the request is handled.
Removal failures are logged at debug level and never fail the request.
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request, maxBytes int64) (func(), error) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)
	if err := request.ParseMultipartForm(maxBytes); err != nil {
		return func() {}, apperr.ValidationError("Invalid multipart upload")
	}

	return func() {
		if err := request.MultipartForm.RemoveAll(); err != nil {
			ctxutil.GetLogger(request.Context()).Debug("multipart_cleanup_failed", "error", err)
		}
	}, nil
}

/*
Files reads every file posted under field, in the order the client sent them.
*/
func Files(request *http.Request, field string) ([]File, error) {
	if request.MultipartForm == nil {
		return nil, nil
	}

	headers := request.MultipartForm.File[field]
	files := make([]File, 0, len(headers))

	for _, header := range headers {
		file, err := readPart(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

/*
OptionalFile reads the first file under field, or nil when none was sent.
*/
func OptionalFile(request *http.Request, field string) (*File, error) {
	files, err := Files(request, field)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

// readPart copies one multipart file into memory.
func readPart(header *multipart.FileHeader) (File, error) {
	part, err := header.Open()
	if err != nil {
		return File{}, apperr.ValidationError("Unreadable upload: " + header.Filename)
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return File{}, apperr.ValidationError("Unreadable upload: " + header.Filename)
	}

	return File{Name: header.Filename, Data: data}, nil
}
