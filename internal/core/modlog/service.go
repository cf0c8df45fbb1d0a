// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package modlog

import (
	"context"
	"log/slog"
	"sort"

	"github.com/taibuivan/comicvault/internal/platform/sec"
)

// Service records moderator actions and serves the log.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
Record stores a moderator action on a best-effort basis.

Failures are logged and swallowed: the action it describes has already
succeeded and must still be reported as a success.
*/
func (service *Service) Record(context context.Context, userID int64, action Action) {
	if userID <= 0 {
		return
	}

	if err := service.repo.Insert(context, userID, action); err != nil {
		service.logger.Warn("modlog_insert_failed",
			slog.Int64("user_id", userID),
			slog.String("action_type", action.Type),
			slog.String("action_description", action.Description),
			slog.Any("error", err),
		)
	}
}

// List returns every log entry, newest first.
func (service *Service) List(context context.Context, viewer *sec.Viewer) ([]*Entry, error) {
	if err := sec.Require(viewer, sec.RoleModerator); err != nil {
		return nil, err
	}
	return service.repo.List(context)
}

// Scores sums [ActionScore] per moderator, lowest score first.
func (service *Service) Scores(context context.Context, viewer *sec.Viewer) ([]Score, error) {
	entries, err := service.List(context, viewer)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, entry := range entries {
		totals[entry.Username] += ActionScore(entry.ActionType, entry.Description)
	}

	scores := make([]Score, 0, len(totals))
	for username, total := range totals {
		scores = append(scores, Score{Username: username, Score: total})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score < scores[j].Score
		}
		return scores[i].Username < scores[j].Username
	})

	return scores, nil
}
