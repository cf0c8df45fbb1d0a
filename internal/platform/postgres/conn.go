// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # Scoped Connections

// Acquirer hands out pooled connections. [*pgxpool.Pool] satisfies it.
type Acquirer interface {
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
}

/*
WithConn borrows one connection for the duration of fn.

The connection is released when fn returns, whether it succeeded, failed,
or panicked.

Parameters:
  - ctx: context.Context
  - pool: Acquirer
  - fn: func(*pgxpool.Conn) error

Returns:
  - error: acquisition failure or the error returned by fn
*/
func WithConn(ctx context.Context, pool Acquirer, fn func(conn *pgxpool.Conn) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(conn)
}

/*
WithTx runs fn inside a transaction on a borrowed connection.

The transaction commits only when fn returns nil. Any error rolls back
every statement fn issued.

Parameters:
  - ctx: context.Context
  - pool: Acquirer
  - fn: func(pgx.Tx) error

Returns:
  - error: acquisition, begin, commit, or fn errors
*/
func WithTx(ctx context.Context, pool Acquirer, fn func(tx pgx.Tx) error) error {
	return WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		transaction, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("postgres: failed to begin transaction: %w", err)
		}
		defer transaction.Rollback(ctx)

		if err := fn(transaction); err != nil {
			return err
		}

		if err := transaction.Commit(ctx); err != nil {
			return fmt.Errorf("postgres: failed to commit transaction: %w", err)
		}
		return nil
	})
}
