// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/dberr"
)

/*
TestWrap classifies driver errors into application error kinds.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, "NOT_FOUND"},
		{"unique_violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, "CONFLICT"},
		{"foreign_key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "VALIDATION_ERROR"},
		{"other", errors.New("connection reset"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "list_comics")
			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
		})
	}
}

/*
TestWrap_KeepsQueryCause verifies the action name survives for logging.
*/
func TestWrap_KeepsQueryCause(t *testing.T) {
	cause := errors.New("syntax error")
	wrapped := dberr.Wrap(cause, "count_comics")

	var queryError *dberr.QueryError
	require.True(t, errors.As(wrapped, &queryError))
	assert.Equal(t, "count_comics", queryError.Message)
	assert.ErrorIs(t, wrapped, cause)
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
	assert.True(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, dberr.IsUniqueViolation(errors.New("x")))
}
