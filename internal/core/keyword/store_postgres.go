// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package keyword

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/database/schema"
	"github.com/taibuivan/comicvault/internal/platform/dberr"
	"github.com/taibuivan/comicvault/internal/platform/postgres"
)

// keywordRepository implements [Repository] using pgx.
type keywordRepository struct {
	pool postgres.Acquirer
}

// NewRepository constructs a PostgreSQL backed keyword store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &keywordRepository{pool: pool}
}

func (repository *keywordRepository) List(context context.Context) ([]*Keyword, error) {
	query := fmt.Sprintf(`
		SELECT k.%s, k.%s, COUNT(ck.%s)
		FROM %s k
		LEFT JOIN %s ck ON ck.%s = k.%s
		GROUP BY k.%s, k.%s
		ORDER BY k.%s ASC
	`,
		schema.CoreKeyword.ID, schema.CoreKeyword.Name, schema.ComicKeyword.ComicID,
		schema.CoreKeyword.Table,
		schema.ComicKeyword.Table, schema.ComicKeyword.KeywordID, schema.CoreKeyword.ID,
		schema.CoreKeyword.ID, schema.CoreKeyword.Name,
		schema.CoreKeyword.Name,
	)

	keywords := make([]*Keyword, 0)
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(context, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			keyword := &Keyword{}
			if err := rows.Scan(&keyword.ID, &keyword.Name, &keyword.Count); err != nil {
				return err
			}
			keywords = append(keywords, keyword)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, dberr.Wrap(err, "list_keywords")
	}
	return keywords, nil
}

func (repository *keywordRepository) Create(context context.Context, name string) (*Keyword, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s`,
		schema.CoreKeyword.Table, schema.CoreKeyword.Name, schema.CoreKeyword.ID)

	keyword := &Keyword{Name: name}
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, query, name).Scan(&keyword.ID)
	})

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Keyword already exists")
		}
		return nil, dberr.Wrap(err, "create_keyword")
	}
	return keyword, nil
}

func (repository *keywordRepository) ComicName(context context.Context, comicID int64) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CoreComic.Name, schema.CoreComic.Table, schema.CoreComic.ID)

	var name string
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, query, comicID).Scan(&name)
	})

	if err != nil {
		return "", dberr.Wrap(err, "find_comic_name")
	}
	return name, nil
}

func (repository *keywordRepository) AddToComic(context context.Context, comicID int64, keywordIDs []int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, unnest($2::bigint[])`,
		schema.ComicKeyword.Table, schema.ComicKeyword.ComicID, schema.ComicKeyword.KeywordID)

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(context, query, comicID, keywordIDs)
		return err
	})
	return dberr.Wrap(err, "add_comic_keywords")
}

func (repository *keywordRepository) RemoveFromComic(context context.Context, comicID int64, keywordIDs []int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = ANY($2)`,
		schema.ComicKeyword.Table, schema.ComicKeyword.ComicID, schema.ComicKeyword.KeywordID)

	var removed int64
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(context, query, comicID, keywordIDs)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, dberr.Wrap(err, "remove_comic_keywords")
	}
	return removed, nil
}
