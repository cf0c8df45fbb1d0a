// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

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

// # PostgreSQL Repository

// comicRepository implements [Repository] using pgx.
type comicRepository struct {
	pool postgres.Acquirer
}

// NewRepository constructs a PostgreSQL backed catalog store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &comicRepository{pool: pool}
}

func (repository *comicRepository) List(context context.Context, query ListQuery) ([]*Comic, error) {
	statement := BuildList(query)
	comics := make([]*Comic, 0)

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(context, statement.SQL, statement.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			comic := &Comic{}
			var yourRating *int16
			if err := rows.Scan(
				&comic.ID, &comic.Name, &comic.Cat, &comic.Tag, &comic.Artist, &comic.State,
				&comic.NumberOfPages, &comic.Created, &comic.Updated, &comic.UserRating, &yourRating,
			); err != nil {
				return err
			}
			comic.YourRating = widen(yourRating)
			comics = append(comics, comic)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, dberr.Wrap(err, "list_comics")
	}
	return comics, nil
}

func (repository *comicRepository) Count(context context.Context, filter Filter) (int, error) {
	statement := BuildCount(filter)
	var total int

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, statement.SQL, statement.Args...).Scan(&total)
	})

	return total, dberr.Wrap(err, "count_comics")
}

func (repository *comicRepository) FindByName(context context.Context, name string, viewerID int64) (*Detail, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, a.%s, c.%s, c.%s, c.%s, c.%s,
			(SELECT AVG(v.%s)::float8 FROM %s v WHERE v.%s = c.%s),
			(SELECT yv.%s FROM %s yv WHERE yv.%s = c.%s AND yv.%s = $2),
			COALESCE((
				SELECT array_agg(k.%s ORDER BY k.%s)
				FROM %s ck INNER JOIN %s k ON k.%s = ck.%s
				WHERE ck.%s = c.%s
			), '{}')
		FROM %s c
		INNER JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
	`,
		schema.CoreComic.ID, schema.CoreComic.Name, schema.CoreComic.Cat, schema.CoreComic.Tag,
		schema.CoreArtist.Name, schema.CoreComic.State, schema.CoreComic.NumberOfPages,
		schema.CoreComic.CreatedAt, schema.CoreComic.UpdatedAt,
		schema.ComicVote.Vote, schema.ComicVote.Table, schema.ComicVote.ComicID, schema.CoreComic.ID,
		schema.ComicVote.Vote, schema.ComicVote.Table, schema.ComicVote.ComicID, schema.CoreComic.ID, schema.ComicVote.UserID,
		schema.CoreKeyword.Name, schema.CoreKeyword.Name,
		schema.ComicKeyword.Table, schema.CoreKeyword.Table, schema.CoreKeyword.ID, schema.ComicKeyword.KeywordID,
		schema.ComicKeyword.ComicID, schema.CoreComic.ID,
		schema.CoreComic.Table,
		schema.CoreArtist.Table, schema.CoreArtist.ID, schema.CoreComic.ArtistID,
		schema.CoreComic.Name,
	)

	detail := &Detail{}
	var yourRating *int16

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, query, name, viewerID).Scan(
			&detail.ID, &detail.Name, &detail.Cat, &detail.Tag, &detail.Artist, &detail.State,
			&detail.NumberOfPages, &detail.Created, &detail.Updated,
			&detail.UserRating, &yourRating, &detail.Keywords,
		)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Comic")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_comic_by_name")
	}

	detail.YourRating = widen(yourRating)
	return detail, nil
}

func (repository *comicRepository) FindRef(context context.Context, id int64) (*Ref, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CoreComic.ID, schema.CoreComic.Name, schema.CoreComic.NumberOfPages,
		schema.CoreComic.Table, schema.CoreComic.ID,
	)

	ref := &Ref{}
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, query, id).Scan(&ref.ID, &ref.Name, &ref.NumberOfPages)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Comic")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_comic_ref")
	}
	return ref, nil
}

func (repository *comicRepository) UpdateDetails(context context.Context, id int64, update DetailsUpdate) error {
	artistQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CoreArtist.ID, schema.CoreArtist.Table, schema.CoreArtist.Name,
	)
	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
	`,
		schema.CoreComic.Table,
		schema.CoreComic.Name, schema.CoreComic.Cat, schema.CoreComic.Tag, schema.CoreComic.State,
		schema.CoreComic.ArtistID, schema.CoreComic.UpdatedAt,
		schema.CoreComic.ID,
	)

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		var artistID int64
		if err := transaction.QueryRow(context, artistQuery, update.Artist).Scan(&artistID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("Artist")
			}
			return err
		}

		tag, err := transaction.Exec(context, updateQuery, id, update.Name, update.Cat, update.Tag, string(update.State), artistID)
		if err != nil {
			if dberr.IsUniqueViolation(err) {
				return apperr.Conflict("A comic with this name already exists")
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Comic")
		}
		return nil
	})

	return dberr.Wrap(err, "update_comic_details")
}

func (repository *comicRepository) SetVote(context context.Context, comicID, userID int64, score int) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.ComicVote.Table, schema.ComicVote.ComicID, schema.ComicVote.UserID,
	)
	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.ComicVote.Table, schema.ComicVote.ComicID, schema.ComicVote.UserID, schema.ComicVote.Vote,
	)

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		if _, err := transaction.Exec(context, deleteQuery, comicID, userID); err != nil {
			return err
		}
		if score <= 0 {
			return nil
		}
		_, err := transaction.Exec(context, insertQuery, comicID, userID, score)
		return err
	})

	return dberr.Wrap(err, "set_comic_vote")
}

func widen(value *int16) *int {
	if value == nil {
		return nil
	}
	widened := int(*value)
	return &widened
}
