// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication

import "context"

// # Submission Data Access

// Repository defines persistence for staged submissions.
type Repository interface {

	/*
		Create inserts the staged record and its proposed keywords in one
		transaction.

		Returns:
		  - int64: the submission id
		  - error: Conflict when an open submission already has this name
	*/
	Create(context context.Context, staged Staged) (int64, error)

	// List returns every unprocessed submission, oldest first.
	List(context context.Context) ([]*Submission, error)

	// FindByName returns the unprocessed submission with name.
	FindByName(context context.Context, name string) (*Submission, error)

	// FindByID returns a submission regardless of its state.
	FindByID(context context.Context, id int64) (*Submission, error)

	/*
		Approve publishes an unprocessed submission as one unit: insert the
		work copied from the staged row, mark the submission processed and
		approved, and copy its keyword memberships.

		Returns:
		  - int64: the new work id
		  - error: Conflict if it was processed meanwhile or the name is taken
	*/
	Approve(context context.Context, id int64) (int64, error)

	// Reject marks an unprocessed submission processed and not approved.
	Reject(context context.Context, id int64) error

	// AddKeywords adds memberships. Any existing one fails the whole call.
	AddKeywords(context context.Context, id int64, keywordIDs []int64) error

	// RemoveKeywords deletes memberships and returns how many were removed.
	RemoveKeywords(context context.Context, id int64, keywordIDs []int64) (int64, error)
}
