// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package modlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comicvault/internal/platform/database/schema"
	"github.com/taibuivan/comicvault/internal/platform/dberr"
	"github.com/taibuivan/comicvault/internal/platform/postgres"
)

// modlogRepository implements [Repository] using pgx.
type modlogRepository struct {
	pool postgres.Acquirer
}

// NewRepository constructs a PostgreSQL backed moderator log.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &modlogRepository{pool: pool}
}

func (repository *modlogRepository) Insert(context context.Context, userID int64, action Action) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, NULLIF($4, ''))`,
		schema.ModLog.Table, schema.ModLog.UserID, schema.ModLog.ActionType,
		schema.ModLog.ActionDescription, schema.ModLog.ActionDetails,
	)

	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(context, query, userID, action.Type, action.Description, action.Details)
		return err
	})
	return dberr.Wrap(err, "insert_modlog")
}

func (repository *modlogRepository) List(context context.Context) ([]*Entry, error) {
	query := fmt.Sprintf(`
		SELECT m.%s, COALESCE(u.%s, ''), m.%s, m.%s, m.%s, m.%s
		FROM %s m
		LEFT JOIN %s u ON u.%s = m.%s
		ORDER BY m.%s DESC
	`,
		schema.ModLog.ID, schema.UsersAccount.Username, schema.ModLog.ActionType,
		schema.ModLog.ActionDescription, schema.ModLog.ActionDetails, schema.ModLog.Timestamp,
		schema.ModLog.Table,
		schema.UsersAccount.Table, schema.UsersAccount.ID, schema.ModLog.UserID,
		schema.ModLog.Timestamp,
	)

	entries := make([]*Entry, 0)
	err := postgres.WithConn(context, repository.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(context, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			entry := &Entry{}
			if err := rows.Scan(&entry.ID, &entry.Username, &entry.ActionType, &entry.Description, &entry.Details, &entry.Timestamp); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, dberr.Wrap(err, "list_modlog")
	}
	return entries, nil
}
