// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package modlog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

type memoryLog struct {
	entries []*modlog.Entry
	fail    bool
}

func (repo *memoryLog) Insert(_ context.Context, userID int64, action modlog.Action) error {
	if repo.fail {
		return errors.New("connection reset")
	}
	repo.entries = append(repo.entries, &modlog.Entry{
		ID:          int64(len(repo.entries) + 1),
		Username:    map[int64]string{1: "alice", 2: "bob"}[userID],
		ActionType:  action.Type,
		Description: action.Description,
	})
	return nil
}

func (repo *memoryLog) List(context.Context) ([]*modlog.Entry, error) {
	return repo.entries, nil
}

var moderator = &sec.Viewer{ID: 1, Username: "alice", Role: sec.RoleModerator}

/*
TestActionScore checks the weights, including rules that share a type and
are told apart by description fragments.
*/
func TestActionScore(t *testing.T) {
	tests := []struct {
		actionType  string
		description string
		want        int
	}{
		{modlog.TypeComic, "Append 3 pages to Dragon Tales", 30},
		{modlog.TypeComic, "Swap pages in Dragon Tales", 40},
		{modlog.TypeComic, "Update details of Dragon Tales", 15},
		{modlog.TypeCreateComic, "Add Dragon Tales", 170},
		{modlog.TypePendingComic, "Approve Dragon Tales", 15},
		{modlog.TypeKeyword, "Add 2 keywords to Dragon Tales", 10},
		{modlog.TypeKeyword, "Add fantasy", 20},
		{modlog.TypeKeyword, "Remove 1 keywords from Dragon Tales", 10},
		{modlog.TypeArtist, "Update Tom", 20},
		{"Unknown", "Add x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, modlog.ActionScore(tt.actionType, tt.description))
		})
	}
}

func TestScores_SumsPerModeratorAscending(t *testing.T) {
	repo := &memoryLog{}
	service := modlog.NewService(repo, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	ctx := context.Background()

	service.Record(ctx, 1, modlog.Action{Type: modlog.TypeCreateComic, Description: "Add A"})
	service.Record(ctx, 2, modlog.Action{Type: modlog.TypeArtist, Description: "Add Tom"})
	service.Record(ctx, 2, modlog.Action{Type: modlog.TypeComic, Description: "Delete page in A"})

	scores, err := service.Scores(ctx, moderator)
	require.NoError(t, err)
	assert.Equal(t, []modlog.Score{{Username: "bob", Score: 50}, {Username: "alice", Score: 170}}, scores)
}

/*
TestRecord_BestEffort verifies failures and anonymous callers never reach
the caller, and that failures are logged.
*/
func TestRecord_BestEffort(t *testing.T) {
	var logs bytes.Buffer
	repo := &memoryLog{fail: true}
	service := modlog.NewService(repo, slog.New(slog.NewTextHandler(&logs, nil)))

	service.Record(context.Background(), 1, modlog.Action{Type: modlog.TypeArtist, Description: "Add Tom"})
	assert.Contains(t, logs.String(), "modlog_insert_failed")

	repo.fail = false
	service.Record(context.Background(), 0, modlog.Action{Type: modlog.TypeArtist, Description: "Add Tom"})
	assert.Empty(t, repo.entries)
}

func TestList_RequiresModerator(t *testing.T) {
	service := modlog.NewService(&memoryLog{}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	_, err := service.List(context.Background(), nil)
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))

	_, err = service.List(context.Background(), &sec.Viewer{ID: 9, Role: sec.RoleMember})
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))
}
