// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package modlog keeps the moderator action log and derives moderator scores.
package modlog

import (
	"context"
	"strings"
	"time"
)

// # Action Types

const (
	TypeComic           = "Comic"
	TypeCreateComic     = "Create comic"
	TypePendingComic    = "Pending comic"
	TypeArtist          = "Artist"
	TypeKeyword         = "Keyword"
	TypeComicSuggestion = "Comic suggestion"
)

// Action is one moderator action about to be recorded.
type Action struct {
	Type        string
	Description string
	Details     string
}

// Entry is a recorded action joined with the moderator's name.
type Entry struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	ActionType  string    `json:"action_type"`
	Description string    `json:"action_description"`
	Details     *string   `json:"action_details"`
	Timestamp   time.Time `json:"timestamp"`
}

// Score is the accumulated weight of one moderator's actions.
type Score struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Recorder accepts moderator actions. Implementations never fail the caller.
type Recorder interface {
	Record(context context.Context, userID int64, action Action)
}

// # Scoring

// scoreRule awards points when an entry has the given type and its
// description contains every fragment.
type scoreRule struct {
	actionType string
	fragments  []string
	points     int
}

// scoreRules are evaluated in order; the first match wins.
var scoreRules = []scoreRule{
	{TypeComic, []string{"Append"}, 30},
	{TypeComic, []string{"Update details of"}, 15},
	{TypeComic, []string{"thumbnail to"}, 30},
	{TypeComic, []string{"Swap pages"}, 40},
	{TypeComic, []string{"Insert page"}, 40},
	{TypeComic, []string{"Delete page"}, 40},
	{TypeCreateComic, nil, 170},
	{TypePendingComic, []string{"Approve "}, 15},
	{TypePendingComic, []string{"Reject "}, 15},
	{TypePendingComic, []string{"Add thumbnail to"}, 30},
	{TypePendingComic, []string{" keywords to "}, 10},
	{TypePendingComic, []string{" keywords from "}, 10},
	{TypePendingComic, []string{"Append "}, 30},
	{TypeArtist, []string{"Add "}, 10},
	{TypeArtist, []string{"Update "}, 20},
	{TypeKeyword, []string{"Remove", " from "}, 10},
	{TypeKeyword, []string{"Add", " to "}, 10},
	{TypeKeyword, []string{"Add"}, 20},
	{TypeComicSuggestion, nil, 15},
}

// ActionScore returns the points awarded for one logged action.
func ActionScore(actionType, description string) int {
	for _, rule := range scoreRules {
		if rule.actionType != actionType {
			continue
		}
		if containsAll(description, rule.fragments) {
			return rule.points
		}
	}
	return 0
}

func containsAll(s string, fragments []string) bool {
	for _, fragment := range fragments {
		if !strings.Contains(s, fragment) {
			return false
		}
	}
	return true
}
