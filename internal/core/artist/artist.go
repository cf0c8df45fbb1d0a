// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package artist manages the creators that published works are credited to.
package artist

import "time"

// Artist is a work creator with the number of published works credited.
type Artist struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	NumberOfComics int       `json:"number_of_comics"`
	CreatedAt      time.Time `json:"created_at"`
}

// Filter holds the parameters for a paginated artist search.
type Filter struct {
	Query string // substring of the name, case insensitive
}

const (
	FieldName = "name"

	// PageSize is the number of artists per listing page.
	PageSize = 50

	maxNameLength = 200
)
