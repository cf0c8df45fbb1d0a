// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package keyword manages keywords and their memberships on published works.
package keyword

// Keyword is a keyword with the number of works carrying it.
type Keyword struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

const (
	FieldName       = "name"
	FieldKeywordIDs = "keyword_ids"
)
