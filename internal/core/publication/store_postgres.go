// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication

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

// submissionRepository implements [Repository] using pgx.
type submissionRepository struct {
	pool postgres.Acquirer
}

// NewRepository constructs a PostgreSQL backed submission store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &submissionRepository{pool: pool}
}

func (repository *submissionRepository) Create(context context.Context, staged Staged) (int64, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`,
		schema.PendingComic.Table,
		schema.PendingComic.ModeratorID, schema.PendingComic.Name, schema.PendingComic.ArtistID,
		schema.PendingComic.Cat, schema.PendingComic.Tag, schema.PendingComic.State,
		schema.PendingComic.NumberOfPages, schema.PendingComic.HasThumbnail,
		schema.PendingComic.PreviousComicID, schema.PendingComic.NextComicID,
		schema.PendingComic.ID,
	)

	var id int64
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, insert,
			staged.ModeratorID, staged.Name, staged.ArtistID,
			staged.Cat, staged.Tag, staged.State,
			staged.NumberOfPages, staged.HasThumbnail,
			staged.PreviousComic, staged.NextComic,
		).Scan(&id)
		if err != nil {
			if dberr.IsUniqueViolation(err) {
				return apperr.Conflict("A submission with this name is already pending")
			}
			return err
		}

		if len(staged.KeywordIDs) == 0 {
			return nil
		}
		_, err = tx.Exec(context, insertKeywordsQuery(), id, staged.KeywordIDs)
		return err
	})

	if err != nil {
		return 0, dberr.Wrap(err, "create_pending_comic")
	}
	return id, nil
}

func (repository *submissionRepository) List(context context.Context) ([]*Submission, error) {
	query := selectSubmissions(fmt.Sprintf("NOT p.%s", schema.PendingComic.Processed)) +
		fmt.Sprintf(" ORDER BY p.%s ASC", schema.PendingComic.CreatedAt)

	submissions := make([]*Submission, 0)
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(context, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			submission, err := scanSubmission(rows)
			if err != nil {
				return err
			}
			submissions = append(submissions, submission)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, dberr.Wrap(err, "list_pending_comics")
	}
	return submissions, nil
}

func (repository *submissionRepository) FindByName(context context.Context, name string) (*Submission, error) {
	query := selectSubmissions(fmt.Sprintf("p.%s = $1 AND NOT p.%s", schema.PendingComic.Name, schema.PendingComic.Processed))
	return repository.findOne(context, "find_pending_comic_by_name", query, name)
}

func (repository *submissionRepository) FindByID(context context.Context, id int64) (*Submission, error) {
	query := selectSubmissions(fmt.Sprintf("p.%s = $1", schema.PendingComic.ID))
	return repository.findOne(context, "find_pending_comic", query, id)
}

func (repository *submissionRepository) findOne(context context.Context, action, query string, arg any) (*Submission, error) {
	var submission *Submission
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		var err error
		submission, err = scanSubmission(conn.QueryRow(context, query, arg))
		return err
	})

	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return submission, nil
}

func (repository *submissionRepository) Approve(context context.Context, id int64) (int64, error) {
	publish := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND NOT %s
		RETURNING %s
	`,
		schema.CoreComic.Table,
		schema.CoreComic.Name, schema.CoreComic.Cat, schema.CoreComic.Tag,
		schema.CoreComic.NumberOfPages, schema.CoreComic.ArtistID, schema.CoreComic.State,
		schema.PendingComic.Name, schema.PendingComic.Cat, schema.PendingComic.Tag,
		schema.PendingComic.NumberOfPages, schema.PendingComic.ArtistID, schema.PendingComic.State,
		schema.PendingComic.Table, schema.PendingComic.ID, schema.PendingComic.Processed,
		schema.CoreComic.ID,
	)

	mark := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = TRUE WHERE %s = $1`,
		schema.PendingComic.Table, schema.PendingComic.Processed, schema.PendingComic.Approved, schema.PendingComic.ID)

	copyKeywords := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, %s FROM %s WHERE %s = $2
	`,
		schema.ComicKeyword.Table, schema.ComicKeyword.ComicID, schema.ComicKeyword.KeywordID,
		schema.PendingComicKeyword.KeywordID, schema.PendingComicKeyword.Table, schema.PendingComicKeyword.ComicID,
	)

	var comicID int64
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(context, publish, id).Scan(&comicID); err != nil {
			switch {
			case errors.Is(err, pgx.ErrNoRows):
				return apperr.Conflict(MsgProcessed)
			case dberr.IsUniqueViolation(err):
				return apperr.Conflict("A comic with this name already exists")
			}
			return err
		}

		if _, err := tx.Exec(context, mark, id); err != nil {
			return err
		}

		_, err := tx.Exec(context, copyKeywords, comicID, id)
		return err
	})

	if err != nil {
		return 0, dberr.Wrap(err, "approve_pending_comic")
	}
	return comicID, nil
}

func (repository *submissionRepository) Reject(context context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = FALSE WHERE %s = $1 AND NOT %s`,
		schema.PendingComic.Table, schema.PendingComic.Processed, schema.PendingComic.Approved,
		schema.PendingComic.ID, schema.PendingComic.Processed)

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(context, query, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.Conflict(MsgProcessed)
		}
		return nil
	})
	return dberr.Wrap(err, "reject_pending_comic")
}

func (repository *submissionRepository) AddKeywords(context context.Context, id int64, keywordIDs []int64) error {
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(context, insertKeywordsQuery(), id, keywordIDs)
		return err
	})
	return dberr.Wrap(err, "add_pending_comic_keywords")
}

func (repository *submissionRepository) RemoveKeywords(context context.Context, id int64, keywordIDs []int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = ANY($2)`,
		schema.PendingComicKeyword.Table, schema.PendingComicKeyword.ComicID, schema.PendingComicKeyword.KeywordID)

	var removed int64
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(context, query, id, keywordIDs)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, dberr.Wrap(err, "remove_pending_comic_keywords")
	}
	return removed, nil
}

// # Query Fragments

func insertKeywordsQuery() string {
	return fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, unnest($2::bigint[])`,
		schema.PendingComicKeyword.Table, schema.PendingComicKeyword.ComicID, schema.PendingComicKeyword.KeywordID)
}

// selectSubmissions selects submissions with moderator name, artist name,
// and proposed keywords (as a JSON array) matching where.
func selectSubmissions(where string) string {
	return fmt.Sprintf(`
		SELECT p.%s, p.%s, COALESCE(u.%s, ''), p.%s, p.%s, a.%s, p.%s, p.%s, p.%s,
			p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
			COALESCE((
				SELECT json_agg(json_build_object('id', k.%s, 'name', k.%s) ORDER BY k.%s)
				FROM %s pk
				INNER JOIN %s k ON k.%s = pk.%s
				WHERE pk.%s = p.%s
			), '[]'::json)
		FROM %s p
		INNER JOIN %s a ON a.%s = p.%s
		LEFT JOIN %s u ON u.%s = p.%s
		WHERE %s`,
		schema.PendingComic.ID, schema.PendingComic.ModeratorID, schema.UsersAccount.Username,
		schema.PendingComic.Name, schema.PendingComic.ArtistID, schema.CoreArtist.Name,
		schema.PendingComic.Cat, schema.PendingComic.Tag, schema.PendingComic.State,
		schema.PendingComic.NumberOfPages, schema.PendingComic.HasThumbnail,
		schema.PendingComic.Processed, schema.PendingComic.Approved,
		schema.PendingComic.PreviousComicID, schema.PendingComic.NextComicID, schema.PendingComic.CreatedAt,
		schema.CoreKeyword.ID, schema.CoreKeyword.Name, schema.CoreKeyword.Name,
		schema.PendingComicKeyword.Table,
		schema.CoreKeyword.Table, schema.CoreKeyword.ID, schema.PendingComicKeyword.KeywordID,
		schema.PendingComicKeyword.ComicID, schema.PendingComic.ID,
		schema.PendingComic.Table,
		schema.CoreArtist.Table, schema.CoreArtist.ID, schema.PendingComic.ArtistID,
		schema.UsersAccount.Table, schema.UsersAccount.ID, schema.PendingComic.ModeratorID,
		where,
	)
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	submission := &Submission{}
	err := row.Scan(
		&submission.ID, &submission.ModeratorID, &submission.Moderator,
		&submission.Name, &submission.ArtistID, &submission.Artist,
		&submission.Cat, &submission.Tag, &submission.State,
		&submission.NumberOfPages, &submission.HasThumbnail,
		&submission.Processed, &submission.Approved,
		&submission.PreviousComicID, &submission.NextComicID, &submission.Created,
		&submission.Keywords,
	)
	if err != nil {
		return nil, err
	}
	return submission, nil
}
