// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/comicvault/internal/platform/ctxutil"
	"github.com/taibuivan/comicvault/internal/platform/middleware"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	switch token {
	case "good":
		return verifier.claims, nil
	case "service":
		return &sec.AuthClaims{UserID: "indexer", Role: "admin"}, nil
	}
	return nil, errors.New("bad token")
}

func chain(role sec.UserRole, verifier middleware.TokenVerifier, seen **sec.Viewer) http.Handler {
	final := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*seen = ctxutil.GetViewer(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
	return middleware.Authenticate(verifier)(middleware.RequireRole(role)(final))
}

/*
TestRequireRole exercises the authenticate + role guard chain.
*/
func TestRequireRole(t *testing.T) {
	verifier := stubVerifier{claims: &sec.AuthClaims{UserID: "9", Username: "m", Role: "moderator"}}

	tests := []struct {
		name   string
		header string
		role   sec.UserRole
		status int
	}{
		{"anonymous", "", sec.RoleModerator, http.StatusUnauthorized},
		{"malformed_header", "Token good", sec.RoleModerator, http.StatusUnauthorized},
		{"invalid_token", "Bearer nope", sec.RoleModerator, http.StatusUnauthorized},
		{"empty_token", "Bearer  ", sec.RoleModerator, http.StatusUnauthorized},
		{"no_account", "Bearer service", sec.RoleMember, http.StatusUnauthorized},
		{"insufficient_role", "Bearer good", sec.RoleAdmin, http.StatusForbidden},
		{"allowed", "Bearer good", sec.RoleModerator, http.StatusOK},
		{"scheme_case_insensitive", "bearer good", sec.RoleMember, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *sec.Viewer
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			chain(tt.role, verifier, &seen).ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, int64(9), seen.ID)
			}
		})
	}
}
