// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # Roles

// UserRole is the authorization level a viewer token carries.
type UserRole string

const (
	// RoleAdmin may also inspect and clear the page journal.
	RoleAdmin UserRole = "admin"

	// RoleModerator reviews submissions and edits works, pages, keywords and artists.
	RoleModerator UserRole = "moderator"

	// RoleMember may rate works.
	RoleMember UserRole = "member"
)

// roleRank orders the known roles. Anything else ranks zero.
var roleRank = map[UserRole]int{
	RoleMember:    1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// ParseRole normalises a claim value. Unknown values yield the empty role,
// which satisfies no requirement.
func ParseRole(raw string) UserRole {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	if _, known := roleRank[role]; !known {
		return ""
	}
	return role
}

// AtLeast reports whether r meets target. An unknown target is never met.
func (r UserRole) AtLeast(target UserRole) bool {
	need, known := roleRank[target]
	return known && roleRank[r] >= need
}
