// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// # Catalog Data Access

// Repository defines the data access contract for published works.
type Repository interface {

	/*
		List returns one catalog page.

		Parameters:
		  - context: context.Context
		  - query: ListQuery (filter, order, page, viewer)

		Returns:
		  - []*Comic: at most one page of works, already ordered
		  - error: Database retrieval failures
	*/
	List(context context.Context, query ListQuery) ([]*Comic, error)

	/*
		Count returns the number of distinct works matching filter.
	*/
	Count(context context.Context, filter Filter) (int, error)

	/*
		FindByName returns the work with its aggregate rating, the viewer's
		vote (viewerID zero for anonymous), and its keyword names.

		Returns:
		  - *Detail: neighbors are left empty
		  - error: ErrNotFound if no work has this name
	*/
	FindByName(context context.Context, name string, viewerID int64) (*Detail, error)

	/*
		FindRef returns the identity of a published work.
	*/
	FindRef(context context.Context, id int64) (*Ref, error)

	/*
		UpdateDetails rewrites the editable attributes of a work. The artist is
		resolved by name.

		Returns:
		  - error: NotFound for a missing work or artist, Conflict for a taken name
	*/
	UpdateDetails(context context.Context, id int64, update DetailsUpdate) error

	/*
		SetVote replaces the viewer's vote. A zero score only removes it.
	*/
	SetVote(context context.Context, comicID, userID int64, score int) error
}
