// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comicvault/internal/platform/database/schema"
	"github.com/taibuivan/comicvault/internal/platform/dberr"
	"github.com/taibuivan/comicvault/internal/platform/postgres"
)

// pageRepository implements [Repository] using pgx.
type pageRepository struct {
	pool postgres.Acquirer
}

// NewRepository constructs a PostgreSQL backed page count [Repository].
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pageRepository{pool: pool}
}

func (repository *pageRepository) FindTarget(context context.Context, kind Kind, id int64) (*Target, error) {
	var query string
	if kind == Staged {
		query = fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
			schema.PendingComic.ID, schema.PendingComic.Name, schema.PendingComic.NumberOfPages,
			schema.PendingComic.Processed, schema.PendingComic.Table, schema.PendingComic.ID,
		)
	} else {
		query = fmt.Sprintf(`SELECT %s, %s, %s, FALSE FROM %s WHERE %s = $1`,
			schema.CoreComic.ID, schema.CoreComic.Name, schema.CoreComic.NumberOfPages,
			schema.CoreComic.Table, schema.CoreComic.ID,
		)
	}

	target := &Target{Kind: kind}
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, query, id).Scan(&target.ID, &target.Name, &target.Pages, &target.Processed)
	})
	if err != nil {
		return nil, dberr.Wrap(err, "find_page_target")
	}
	return target, nil
}

func (repository *pageRepository) SetPageCount(context context.Context, target Target, count int) error {
	var query string
	if target.Kind == Staged {
		query = fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
			schema.PendingComic.Table, schema.PendingComic.NumberOfPages, schema.PendingComic.ID)
	} else {
		query = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
			schema.CoreComic.Table, schema.CoreComic.NumberOfPages, schema.CoreComic.UpdatedAt, schema.CoreComic.ID)
	}

	return repository.exec(context, "set_page_count", query, target.ID, count)
}

func (repository *pageRepository) MarkThumbnail(context context.Context, target Target) error {
	var query string
	if target.Kind == Staged {
		query = fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`,
			schema.PendingComic.Table, schema.PendingComic.HasThumbnail, schema.PendingComic.ID)
	} else {
		query = fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
			schema.CoreComic.Table, schema.CoreComic.UpdatedAt, schema.CoreComic.ID)
	}

	return repository.exec(context, "mark_thumbnail", query, target.ID)
}

func (repository *pageRepository) ListTargets(context context.Context) ([]Target, error) {
	query := fmt.Sprintf(`
		SELECT 0, %s, %s, %s FROM %s
		UNION ALL
		SELECT 1, %s, %s, %s FROM %s WHERE NOT %s
		ORDER BY 1, 3
	`,
		schema.CoreComic.ID, schema.CoreComic.Name, schema.CoreComic.NumberOfPages, schema.CoreComic.Table,
		schema.PendingComic.ID, schema.PendingComic.Name, schema.PendingComic.NumberOfPages,
		schema.PendingComic.Table, schema.PendingComic.Processed,
	)

	var targets []Target
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(context, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var target Target
			var kind int
			if err := rows.Scan(&kind, &target.ID, &target.Name, &target.Pages); err != nil {
				return err
			}
			target.Kind = Kind(kind)
			targets = append(targets, target)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, dberr.Wrap(err, "list_page_targets")
	}
	return targets, nil
}

// exec runs an update that must touch exactly one record.
func (repository *pageRepository) exec(context context.Context, action, query string, args ...any) error {
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(context, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return dberr.ErrNotFound
		}
		return nil
	})
	return dberr.Wrap(err, action)
}
