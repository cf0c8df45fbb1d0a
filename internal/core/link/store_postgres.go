// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package link

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/database/schema"
	"github.com/taibuivan/comicvault/internal/platform/dberr"
	"github.com/taibuivan/comicvault/internal/platform/postgres"
)

// linkRepository implements [Repository] using pgx.
type linkRepository struct {
	pool postgres.Acquirer
}

// NewRepository constructs a PostgreSQL backed link store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &linkRepository{pool: pool}
}

func (repository *linkRepository) RedirectIncoming(context context.Context, workID, previousID int64) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.ComicLink.Table, schema.ComicLink.FirstComic, schema.ComicLink.LastComic)
	return repository.exec(context, "redirect_incoming_link", query, workID, previousID)
}

func (repository *linkRepository) RedirectOutgoing(context context.Context, workID, nextID int64) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.ComicLink.Table, schema.ComicLink.LastComic, schema.ComicLink.FirstComic)
	return repository.exec(context, "redirect_outgoing_link", query, workID, nextID)
}

func (repository *linkRepository) Insert(context context.Context, firstID, lastID int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.ComicLink.Table, schema.ComicLink.FirstComic, schema.ComicLink.LastComic)
	_, err := repository.exec(context, "insert_link", query, firstID, lastID)
	return err
}

func (repository *linkRepository) DeleteIncoming(context context.Context, workID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ComicLink.Table, schema.ComicLink.LastComic)
	_, err := repository.exec(context, "delete_incoming_link", query, workID)
	return err
}

func (repository *linkRepository) DeleteOutgoing(context context.Context, workID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ComicLink.Table, schema.ComicLink.FirstComic)
	_, err := repository.exec(context, "delete_outgoing_link", query, workID)
	return err
}

func (repository *linkRepository) Neighbors(context context.Context, workID int64) (*string, *string, error) {
	query := fmt.Sprintf(`
		SELECT
			(SELECT c.%[1]s FROM %[2]s l INNER JOIN %[3]s c ON c.%[4]s = l.%[5]s WHERE l.%[6]s = $1),
			(SELECT c.%[1]s FROM %[2]s l INNER JOIN %[3]s c ON c.%[4]s = l.%[6]s WHERE l.%[5]s = $1)
	`,
		schema.CoreComic.Name, schema.ComicLink.Table, schema.CoreComic.Table, schema.CoreComic.ID,
		schema.ComicLink.FirstComic, schema.ComicLink.LastComic,
	)

	var previous, next *string
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, query, workID).Scan(&previous, &next)
	})
	if err != nil {
		return nil, nil, dberr.Wrap(err, "comic_neighbors")
	}
	return previous, next, nil
}

// exec runs a single statement and reports the affected row count.
func (repository *linkRepository) exec(context context.Context, action, query string, args ...any) (int64, error) {
	var affected int64

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(context, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	switch {
	case err == nil:
		return affected, nil
	case dberr.IsUniqueViolation(err):
		return 0, apperr.Conflict("The linked comic already has a neighbor on that side")
	case errors.Is(err, pgx.ErrNoRows):
		return 0, dberr.ErrNotFound
	}
	return 0, dberr.Wrap(err, action)
}
