// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/comicvault/pkg/pagination"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 75, 0},
		{1, 75, 1},
		{75, 75, 1},
		{76, 75, 2},
		{80, 75, 2},
		{151, 75, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pagination.TotalPages(tt.total, tt.limit))
	}
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query  string
		page   int
		offset int
	}{
		{"", 1, 0},
		{"?page=2", 2, 75},
		{"?page=0", 1, 0},
		{"?page=-3", 1, 0},
		{"?page=abc", 1, 0},
	}

	for _, tt := range tests {
		params := pagination.FromRequest(httptest.NewRequest("GET", "/comics"+tt.query, nil), 75)
		assert.Equal(t, tt.page, params.Page, tt.query)
		assert.Equal(t, tt.offset, params.Offset(), tt.query)
	}
}
