// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strconv"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
)

// # Viewer Capability

// Viewer is the resolved identity of the caller. A nil *Viewer is an
// anonymous visitor.
type Viewer struct {
	ID       int64
	Username string
	Role     UserRole
}

// ViewerFromClaims converts verified token claims into a [Viewer].
// It returns nil when the claims are absent or carry a non-numeric id.
// Unknown role claims resolve to the empty role.
func ViewerFromClaims(claims *AuthClaims) *Viewer {
	if claims == nil {
		return nil
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}

	return &Viewer{ID: id, Username: claims.Username, Role: ParseRole(claims.Role)}
}

// Require returns an error unless the viewer holds at least the given role.
//
// Anonymous viewers get UNAUTHORIZED, insufficient roles get FORBIDDEN.
func Require(viewer *Viewer, role UserRole) error {
	if viewer == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !viewer.Role.AtLeast(role) {
		return apperr.Forbidden("Insufficient permissions")
	}
	return nil
}
