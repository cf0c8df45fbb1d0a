// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "time"

// # Domain Entities

// State is the publication state of a work.
type State string

const (
	StateWIP       State = "wip"
	StateCancelled State = "cancelled"
	StateFinished  State = "finished"
)

// States lists every accepted [State] value.
var States = []string{string(StateWIP), string(StateCancelled), string(StateFinished)}

// Comic is one row of a catalog page.
//
// UserRating is the average of all votes, computed on read. YourRating is the
// viewer's own vote and is nil for anonymous viewers or unrated works.
type Comic struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Cat           string    `json:"cat"`
	Tag           string    `json:"tag"`
	Artist        string    `json:"artist"`
	State         State     `json:"state"`
	NumberOfPages int       `json:"number_of_pages"`
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`
	UserRating    *float64  `json:"user_rating"`
	YourRating    *int      `json:"your_rating"`
}

// Detail is a single work with its keywords and sequence neighbors.
type Detail struct {
	Comic
	Keywords      []string `json:"keywords"`
	PreviousComic *string  `json:"previous_comic"`
	NextComic     *string  `json:"next_comic"`
}

// Ref is the minimal identity of a published work.
type Ref struct {
	ID            int64
	Name          string
	NumberOfPages int
}

// Listing is one catalog page plus the number of pages available.
type Listing struct {
	Comics     []*Comic `json:"comics"`
	Page       int      `json:"page"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
}

// # Queries

// Order selects how a catalog page is sorted.
type Order string

const (
	// OrderRecency sorts by last update, newest first, ties by id ascending.
	OrderRecency Order = "updated"
	// OrderAggregateRating sorts by the average vote of all viewers.
	OrderAggregateRating Order = "userRating"
	// OrderViewerRating sorts by the viewer's own vote. Anonymous viewers get recency.
	OrderViewerRating Order = "yourRating"
)

// Filter holds the catalog search dimensions. Empty dimensions are inactive.
type Filter struct {
	Categories []string
	Tags       []string
	KeywordIDs []int64
	Search     string
	ArtistID   int64
}

// ListQuery is a fully specified catalog page request.
//
// ViewerID is zero for anonymous requests.
type ListQuery struct {
	Filter   Filter
	Order    Order
	Page     int
	ViewerID int64
}

// # Mutations

// DetailsUpdate replaces the editable attributes of a published work.
//
// PreviousComic and NextComic follow the adjacency rules: nil removes the
// edge, a value creates or redirects it.
type DetailsUpdate struct {
	Name          string `json:"name"`
	Cat           string `json:"cat"`
	Tag           string `json:"tag"`
	State         State  `json:"state"`
	Artist        string `json:"artist"`
	PreviousComic *int64 `json:"previous_comic"`
	NextComic     *int64 `json:"next_comic"`
}

const (
	FieldName   = "name"
	FieldCat    = "cat"
	FieldTag    = "tag"
	FieldState  = "state"
	FieldArtist = "artist"
	FieldOrder  = "order"
	FieldRating = "rating"
)
