// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package publication implements the staged submission workflow.

A moderator submits a work with its pages and proposed keywords. The files
go straight to the work's final directory; the record stays staged until
another moderator approves or rejects it. Both outcomes are terminal.
*/
package publication

import "time"

// # Domain Entities

// KeywordRef is a keyword proposed for a submission.
type KeywordRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Submission is a staged work awaiting review.
type Submission struct {
	ID              int64        `json:"id"`
	ModeratorID     int64        `json:"moderator_id"`
	Moderator       string       `json:"moderator"`
	Name            string       `json:"name"`
	ArtistID        int64        `json:"artist_id"`
	Artist          string       `json:"artist"`
	Cat             string       `json:"cat"`
	Tag             string       `json:"tag"`
	State           string       `json:"state"`
	NumberOfPages   int          `json:"number_of_pages"`
	HasThumbnail    bool         `json:"has_thumbnail"`
	Processed       bool         `json:"processed"`
	Approved        bool         `json:"approved"`
	PreviousComicID *int64       `json:"previous_comic_id"`
	NextComicID     *int64       `json:"next_comic_id"`
	Keywords        []KeywordRef `json:"keywords"`
	Created         time.Time    `json:"created"`
}

// Draft is the metadata of a new submission.
type Draft struct {
	Name          string
	Cat           string
	Tag           string
	State         string
	ArtistID      int64
	KeywordIDs    []int64
	PreviousComic *int64
	NextComic     *int64
}

// Staged is what the repository stores for a new submission.
type Staged struct {
	Draft
	ModeratorID   int64
	NumberOfPages int
	HasThumbnail  bool
}

// Keyword membership errors.
const (
	MsgKeywordsExist = "Some keywords already exist on this submission"
	MsgProcessed     = "This submission has already been processed"
)

const (
	FieldName     = "name"
	FieldCat      = "cat"
	FieldTag      = "tag"
	FieldState    = "state"
	FieldArtistID = "artist_id"
	FieldPages    = "pages"
	FieldKeywords = "keyword_ids"
)
