// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog implements discovery and editing of published works.

The listing query is assembled in two stages:

  - Compose turns a [Filter] into structured predicates (equality,
    membership, substring, count floor) plus the join the keyword dimension
    needs. Nothing is rendered yet.
  - The query builder renders those predicates with numbered placeholders
    into the inner query, then wraps it with the vote aggregation, ordering,
    and the fixed page window.

Values only ever travel as bound parameters. Column names come from the
schema package.
*/
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/comicvault/internal/platform/database/schema"
)

// # Table Aliases

const (
	aliasComic        = "c"
	aliasArtist       = "a"
	aliasComicKeyword = "ck"
	aliasViewerVote   = "yv"
	aliasVote         = "v"
	aliasInner        = "cc"
)

func col(alias, column string) string { return alias + "." + column }

// # Placeholders

// Args allocates numbered placeholders in the order values are bound.
type Args struct {
	values []any
}

// Add binds value and returns its placeholder ($1, $2, ...).
func (args *Args) Add(value any) string {
	args.values = append(args.values, value)
	return "$" + strconv.Itoa(len(args.values))
}

// Values returns the bound values in placeholder order.
func (args *Args) Values() []any { return args.values }

// # Predicates

// PredicateKind tags how a [Predicate] is rendered.
type PredicateKind int

const (
	// Equality matches when a column equals any of the values.
	Equality PredicateKind = iota
	// Membership matches when a joined membership row carries any of the values.
	Membership
	// Substring matches when any of the columns contains the value, ignoring case.
	Substring
	// CountFloor keeps groups with at least Values[0] distinct matches of the column.
	CountFloor
)

// Predicate is one unrendered filter fragment.
type Predicate struct {
	Kind    PredicateKind
	Columns []string
	Values  []any
}

// Composition is the structured output of [Compose].
//
// Where predicates are AND'd. Having is nil unless keywords are filtered,
// in which case Join holds the keyword membership join it depends on.
type Composition struct {
	Where  []Predicate
	Having *Predicate
	Join   string
}

/*
Compose converts a filter into predicates.

Description: Each active dimension contributes one predicate. Within a
dimension the values are OR'd (a work has one category, so "any of").
Across dimensions the predicates are AND'd. Keywords are the exception to
OR semantics: the membership predicate admits rows carrying any selected
keyword, and the count floor then requires every selected keyword.

Parameters:
  - filter: Filter

Returns:
  - Composition: empty when no dimension is active
*/
func Compose(filter Filter) Composition {
	var composition Composition

	if categories := dedupeStrings(filter.Categories); len(categories) > 0 {
		composition.Where = append(composition.Where, Predicate{
			Kind:    Equality,
			Columns: []string{col(aliasComic, schema.CoreComic.Cat)},
			Values:  toAny(categories),
		})
	}

	if tags := dedupeStrings(filter.Tags); len(tags) > 0 {
		composition.Where = append(composition.Where, Predicate{
			Kind:    Equality,
			Columns: []string{col(aliasComic, schema.CoreComic.Tag)},
			Values:  toAny(tags),
		})
	}

	if keywordIDs := dedupeIDs(filter.KeywordIDs); len(keywordIDs) > 0 {
		membershipColumn := col(aliasComicKeyword, schema.ComicKeyword.KeywordID)

		composition.Where = append(composition.Where, Predicate{
			Kind:    Membership,
			Columns: []string{membershipColumn},
			Values:  toAny(keywordIDs),
		})
		composition.Having = &Predicate{
			Kind:    CountFloor,
			Columns: []string{membershipColumn},
			Values:  []any{len(keywordIDs)},
		}
		composition.Join = fmt.Sprintf("INNER JOIN %s %s ON %s = %s",
			schema.ComicKeyword.Table, aliasComicKeyword,
			col(aliasComicKeyword, schema.ComicKeyword.ComicID), col(aliasComic, schema.CoreComic.ID),
		)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		composition.Where = append(composition.Where, Predicate{
			Kind: Substring,
			Columns: []string{
				col(aliasComic, schema.CoreComic.Name),
				col(aliasArtist, schema.CoreArtist.Name),
			},
			Values: []any{search},
		})
	}

	if filter.ArtistID > 0 {
		composition.Where = append(composition.Where, Predicate{
			Kind:    Equality,
			Columns: []string{col(aliasComic, schema.CoreComic.ArtistID)},
			Values:  []any{filter.ArtistID},
		})
	}

	return composition
}

// IsEmpty reports whether no dimension is active.
func (composition Composition) IsEmpty() bool {
	return len(composition.Where) == 0 && composition.Having == nil
}

// WhereClause renders "WHERE ..." or an empty string.
func (composition Composition) WhereClause(args *Args) string {
	if len(composition.Where) == 0 {
		return ""
	}

	parts := make([]string, 0, len(composition.Where))
	for _, predicate := range composition.Where {
		parts = append(parts, predicate.render(args))
	}
	return "WHERE " + strings.Join(parts, " AND ")
}

// HavingClause renders "HAVING ..." or an empty string.
func (composition Composition) HavingClause(args *Args) string {
	if composition.Having == nil {
		return ""
	}
	return "HAVING " + composition.Having.render(args)
}

// render binds the predicate values and returns its SQL fragment.
func (predicate Predicate) render(args *Args) string {
	switch predicate.Kind {
	case Equality, Membership:
		terms := make([]string, 0, len(predicate.Values))
		for _, value := range predicate.Values {
			terms = append(terms, predicate.Columns[0]+" = "+args.Add(value))
		}
		return "(" + strings.Join(terms, " OR ") + ")"

	case Substring:
		pattern := "%" + escapeLike(fmt.Sprint(predicate.Values[0])) + "%"
		terms := make([]string, 0, len(predicate.Columns))
		for _, column := range predicate.Columns {
			terms = append(terms, column+" ILIKE "+args.Add(pattern))
		}
		return "(" + strings.Join(terms, " OR ") + ")"

	case CountFloor:
		return "COUNT(DISTINCT " + predicate.Columns[0] + ") >= " + args.Add(predicate.Values[0])
	}

	return "TRUE"
}

// # Helpers

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE metacharacters in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, found := seen[value]; found {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func dedupeIDs(values []int64) []int64 {
	seen := make(map[int64]struct{}, len(values))
	var out []int64
	for _, value := range values {
		if value <= 0 {
			continue
		}
		if _, found := seen[value]; found {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}
