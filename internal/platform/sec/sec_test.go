// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, "comicvault")
}

/*
TestTokenService_RoundTrip signs a token and resolves it back into a viewer.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.Issue(sec.Viewer{ID: 42, Username: "mod", Role: sec.RoleModerator}, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	viewer := sec.ViewerFromClaims(claims)
	require.NotNil(t, viewer)
	assert.Equal(t, int64(42), viewer.ID)
	assert.Equal(t, sec.RoleModerator, viewer.Role)
	assert.Equal(t, "mod", viewer.Username)
}

/*
TestTokenService_Rejects covers expired tokens and foreign signers.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t)
	other := newTokenService(t)

	member := sec.Viewer{ID: 1, Username: "a", Role: sec.RoleMember}

	expired, err := service.Issue(member, -time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	foreign, err := other.Issue(member, time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)
}

func TestTokenService_VerifyOnly(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	service := sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "comicvault")
	_, err = service.Issue(sec.Viewer{ID: 1, Role: sec.RoleMember}, time.Minute)
	assert.ErrorIs(t, err, sec.ErrSigningDisabled)
}

/*
TestRequire checks the role capability guard used by the services.
*/
func TestRequire(t *testing.T) {
	tests := []struct {
		name   string
		viewer *sec.Viewer
		role   sec.UserRole
		code   string
	}{
		{"anonymous", nil, sec.RoleMember, "UNAUTHORIZED"},
		{"member_needs_mod", &sec.Viewer{ID: 1, Role: sec.RoleMember}, sec.RoleModerator, "FORBIDDEN"},
		{"admin_passes_mod", &sec.Viewer{ID: 1, Role: sec.RoleAdmin}, sec.RoleModerator, ""},
		{"mod_passes_mod", &sec.Viewer{ID: 1, Role: sec.RoleModerator}, sec.RoleModerator, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.Require(tt.viewer, tt.role)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.code))
		})
	}
}

func TestViewerFromClaims_InvalidID(t *testing.T) {
	assert.Nil(t, sec.ViewerFromClaims(nil))
	assert.Nil(t, sec.ViewerFromClaims(&sec.AuthClaims{UserID: "abc"}))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, sec.RoleAdmin, sec.ParseRole(" Admin "))
	assert.Equal(t, sec.RoleMember, sec.ParseRole("member"))
	assert.Equal(t, sec.UserRole(""), sec.ParseRole("owner"))

	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.False(t, sec.UserRole("").AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleAdmin.AtLeast(sec.UserRole("owner")))
}
