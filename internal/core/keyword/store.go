// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package keyword

import "context"

// Repository defines persistence for keywords and work memberships.
type Repository interface {
	// List returns every keyword with its usage count, ordered by name.
	List(context context.Context) ([]*Keyword, error)

	// Create inserts a keyword. A taken name is a Conflict.
	Create(context context.Context, name string) (*Keyword, error)

	// ComicName resolves a published work for log descriptions.
	ComicName(context context.Context, comicID int64) (string, error)

	// AddToComic adds memberships. Any existing one fails the whole call.
	AddToComic(context context.Context, comicID int64, keywordIDs []int64) error

	// RemoveFromComic deletes memberships and returns how many were removed.
	RemoveFromComic(context context.Context, comicID int64, keywordIDs []int64) (int64, error)
}

// Cache holds the keyword list between writes.
type Cache interface {
	// Get returns the cached list, or ok=false on a miss.
	Get(context context.Context) (keywords []*Keyword, ok bool, err error)
	Set(context context.Context, keywords []*Keyword) error
	Invalidate(context context.Context) error
}
