// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"fmt"
	"strings"

	"github.com/taibuivan/comicvault/internal/platform/constants"
	"github.com/taibuivan/comicvault/internal/platform/database/schema"
	"github.com/taibuivan/comicvault/pkg/pagination"
)

// # Statements

// Statement is rendered SQL with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// EffectiveOrder resolves the order actually applied. Viewer rating needs a
// viewer and falls back to recency for anonymous requests.
func EffectiveOrder(order Order, viewerID int64) Order {
	switch order {
	case OrderAggregateRating:
		return order
	case OrderViewerRating:
		if viewerID > 0 {
			return order
		}
	}
	return OrderRecency
}

/*
BuildList renders the catalog page query.

Description: The inner query applies the filter, groups one row per work,
and attaches the viewer's own vote. The outer query aggregates all votes
into the average rating. When ordering by that average the page window
must come after aggregation, so LIMIT/OFFSET move to the outer query;
otherwise they stay inside to aggregate only the rows of the page.

Parameters:
  - query: ListQuery

Returns:
  - Statement: SQL and arguments for one page of [constants.ComicsPerPage] rows
*/
func BuildList(query ListQuery) Statement {
	args := &Args{}
	composition := Compose(query.Filter)
	order := EffectiveOrder(query.Order, query.ViewerID)
	hasViewer := query.ViewerID > 0

	page := pagination.Params{Page: query.Page, Limit: constants.ComicsPerPage}

	// ## Inner query: filter, one row per work, viewer vote
	yourRating := "NULL::smallint"
	viewerJoin := ""
	groupBy := []string{col(aliasComic, schema.CoreComic.ID), col(aliasArtist, schema.CoreArtist.Name)}

	if hasViewer {
		yourRating = col(aliasViewerVote, schema.ComicVote.Vote)
		viewerJoin = fmt.Sprintf("LEFT JOIN %s %s ON %s = %s AND %s = %s",
			schema.ComicVote.Table, aliasViewerVote,
			col(aliasViewerVote, schema.ComicVote.ComicID), col(aliasComic, schema.CoreComic.ID),
			col(aliasViewerVote, schema.ComicVote.UserID), args.Add(query.ViewerID),
		)
		groupBy = append(groupBy, yourRating)
	}

	var inner strings.Builder
	fmt.Fprintf(&inner, `SELECT %s AS id, %s AS name, %s AS cat, %s AS tag, %s AS artist, %s AS state,
			%s AS numberofpages, %s AS created, %s AS updated, %s AS yourrating
		FROM %s %s`,
		col(aliasComic, schema.CoreComic.ID), col(aliasComic, schema.CoreComic.Name),
		col(aliasComic, schema.CoreComic.Cat), col(aliasComic, schema.CoreComic.Tag),
		col(aliasArtist, schema.CoreArtist.Name), col(aliasComic, schema.CoreComic.State),
		col(aliasComic, schema.CoreComic.NumberOfPages), col(aliasComic, schema.CoreComic.CreatedAt),
		col(aliasComic, schema.CoreComic.UpdatedAt), yourRating,
		schema.CoreComic.Table, aliasComic,
	)

	appendClause(&inner, composition.Join)
	appendClause(&inner, artistJoin())
	appendClause(&inner, viewerJoin)
	appendClause(&inner, composition.WhereClause(args))
	appendClause(&inner, "GROUP BY "+strings.Join(groupBy, ", "))
	appendClause(&inner, composition.HavingClause(args))

	if order != OrderAggregateRating {
		appendClause(&inner, "ORDER BY "+innerOrder(order))
		appendClause(&inner, window(args, page))
	}

	// ## Outer query: aggregate rating over all votes
	var outer strings.Builder
	fmt.Fprintf(&outer, `SELECT %[1]s.id, %[1]s.name, %[1]s.cat, %[1]s.tag, %[1]s.artist, %[1]s.state,
			%[1]s.numberofpages, %[1]s.created, %[1]s.updated,
			AVG(%[2]s)::float8 AS userrating, %[1]s.yourrating
		FROM (%[3]s) AS %[1]s
		LEFT JOIN %[4]s %[5]s ON %[6]s = %[1]s.id
		GROUP BY %[1]s.id, %[1]s.name, %[1]s.cat, %[1]s.tag, %[1]s.artist, %[1]s.state,
			%[1]s.numberofpages, %[1]s.created, %[1]s.updated, %[1]s.yourrating
		ORDER BY %[7]s`,
		aliasInner,
		col(aliasVote, schema.ComicVote.Vote),
		inner.String(),
		schema.ComicVote.Table, aliasVote, col(aliasVote, schema.ComicVote.ComicID),
		outerOrder(order),
	)

	if order == OrderAggregateRating {
		appendClause(&outer, window(args, page))
	}

	return Statement{SQL: outer.String(), Args: args.Values()}
}

/*
BuildCount renders the distinct count of works matching filter.

It reuses the exact predicates of [BuildList], including the keyword count
floor, so totalPages always agrees with the listing.
*/
func BuildCount(filter Filter) Statement {
	args := &Args{}
	composition := Compose(filter)

	var inner strings.Builder
	fmt.Fprintf(&inner, "SELECT %s FROM %s %s",
		col(aliasComic, schema.CoreComic.ID), schema.CoreComic.Table, aliasComic,
	)
	appendClause(&inner, composition.Join)
	appendClause(&inner, artistJoin())
	appendClause(&inner, composition.WhereClause(args))
	appendClause(&inner, "GROUP BY "+col(aliasComic, schema.CoreComic.ID))
	appendClause(&inner, composition.HavingClause(args))

	return Statement{
		SQL:  fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS matched", inner.String()),
		Args: args.Values(),
	}
}

// # Fragments

func artistJoin() string {
	return fmt.Sprintf("INNER JOIN %s %s ON %s = %s",
		schema.CoreArtist.Table, aliasArtist,
		col(aliasArtist, schema.CoreArtist.ID), col(aliasComic, schema.CoreComic.ArtistID),
	)
}

func innerOrder(order Order) string {
	recency := fmt.Sprintf("%s DESC, %s ASC",
		col(aliasComic, schema.CoreComic.UpdatedAt), col(aliasComic, schema.CoreComic.ID))

	if order == OrderViewerRating {
		return col(aliasViewerVote, schema.ComicVote.Vote) + " DESC NULLS LAST, " + recency
	}
	return recency
}

func outerOrder(order Order) string {
	recency := fmt.Sprintf("%[1]s.updated DESC, %[1]s.id ASC", aliasInner)

	switch order {
	case OrderAggregateRating:
		return fmt.Sprintf("AVG(%s) DESC NULLS LAST, %s.id ASC", col(aliasVote, schema.ComicVote.Vote), aliasInner)
	case OrderViewerRating:
		return aliasInner + ".yourrating DESC NULLS LAST, " + recency
	}
	return recency
}

func window(args *Args, page pagination.Params) string {
	return "LIMIT " + args.Add(page.Limit) + " OFFSET " + args.Add(page.Offset())
}

func appendClause(builder *strings.Builder, clause string) {
	if clause == "" {
		return
	}
	builder.WriteString("\n\t\t")
	builder.WriteString(clause)
}
