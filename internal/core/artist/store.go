// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import "context"

type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Artist, int, error)
	FindByID(context context.Context, id int64) (*Artist, error)
	Create(context context.Context, name string) (*Artist, error)
	UpdateName(context context.Context, id int64, name string) error
}
