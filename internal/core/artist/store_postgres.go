// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/database/schema"
	"github.com/taibuivan/comicvault/internal/platform/dberr"
	"github.com/taibuivan/comicvault/internal/platform/postgres"
)

// MsgNameTaken is returned when another artist already has the name.
const MsgNameTaken = "An artist with this name already exists"

type PostgresRepository struct {
	pool postgres.Acquirer
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectArtists renders the artist projection with its credited work count.
func selectArtists(where string) string {
	return fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, COUNT(c.%s)
		FROM %s a
		LEFT JOIN %s c ON c.%s = a.%s
		%s
		GROUP BY a.%s
	`,
		schema.CoreArtist.ID, schema.CoreArtist.Name, schema.CoreArtist.CreatedAt, schema.CoreComic.ID,
		schema.CoreArtist.Table,
		schema.CoreComic.Table, schema.CoreComic.ArtistID, schema.CoreArtist.ID,
		where,
		schema.CoreArtist.ID,
	)
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Artist, int, error) {
	where := ""
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s a`, schema.CoreArtist.Table)

	args := []any{}
	if search := strings.TrimSpace(filter.Query); search != "" {
		where = fmt.Sprintf("WHERE a.%s ILIKE $1", schema.CoreArtist.Name)
		countQuery += " " + where
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
	}
	countArgs := append([]any{}, args...)

	query := selectArtists(where) +
		fmt.Sprintf(" ORDER BY a.%s ASC LIMIT $", schema.CoreArtist.Name) + itos(len(args)+1) + ` OFFSET $` + itos(len(args)+2)
	args = append(args, limit, offset)

	var total int
	artists := make([]*Artist, 0)

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		if err := conn.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
			return err
		}

		rows, err := conn.Query(context, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			a := &Artist{}
			if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.NumberOfComics); err != nil {
				return err
			}
			artists = append(artists, a)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_artists")
	}
	return artists, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Artist, error) {
	query := selectArtists(fmt.Sprintf("WHERE a.%s = $1", schema.CoreArtist.ID))

	a := &Artist{}
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, query, id).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.NumberOfComics)
	})

	if err != nil {
		return nil, dberr.Wrap(err, "get_artist")
	}
	return a, nil
}

func (repository *PostgresRepository) Create(context context.Context, name string) (*Artist, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s, %s`,
		schema.CoreArtist.Table, schema.CoreArtist.Name, schema.CoreArtist.ID, schema.CoreArtist.CreatedAt,
	)

	a := &Artist{Name: name}
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(context, query, name).Scan(&a.ID, &a.CreatedAt)
	})

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(MsgNameTaken)
		}
		return nil, dberr.Wrap(err, "create_artist")
	}
	return a, nil
}

func (repository *PostgresRepository) UpdateName(context context.Context, id int64, name string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.CoreArtist.Table, schema.CoreArtist.Name, schema.CoreArtist.ID,
	)

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		cmd, err := conn.Exec(context, query, id, name)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return dberr.ErrNotFound
		}
		return nil
	})

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict(MsgNameTaken)
		}
		return dberr.Wrap(err, "update_artist")
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func itos(i int) string {
	return strconv.Itoa(i)
}
