// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package modlog

import "context"

// Repository defines persistence for the moderator log.
type Repository interface {
	Insert(context context.Context, userID int64, action Action) error
	List(context context.Context) ([]*Entry, error)
}
