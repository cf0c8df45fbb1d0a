// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/ctxutil"
	"github.com/taibuivan/comicvault/internal/platform/respond"
	"github.com/taibuivan/comicvault/pkg/pagination"
)

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a", "b"}, pagination.NewMeta(2, 75, 151))

	var body struct {
		Data []string        `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

func TestJSON_EncodeFailure(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.JSON(recorder, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

/*
TestError maps application errors to their status and hides the cause of
anything unexpected while logging it through the request logger.
*/
func TestError(t *testing.T) {
	var buffer bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buffer, nil)))
	ctx = ctxutil.WithRequestID(ctx, "req-9")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		logged bool
	}{
		{"not_found", apperr.NotFound("Comic"), http.StatusNotFound, "NOT_FOUND", false},
		{"wrapped_conflict", errors.Join(errors.New("ctx"), apperr.Conflict("taken")), http.StatusConflict, "CONFLICT", false},
		{"unexpected", errors.New("pq: relation missing"), http.StatusInternalServerError, "INTERNAL_ERROR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffer.Reset()
			request := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
			recorder := httptest.NewRecorder()

			respond.Error(recorder, request, tt.err)

			var body respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.code, body.Code)
			assert.NotContains(t, body.Error, "relation")

			if tt.logged {
				assert.Contains(t, buffer.String(), "api_server_error")
				assert.Contains(t, buffer.String(), "request_id=req-9")
			} else {
				assert.Empty(t, buffer.String())
			}
		})
	}
}
