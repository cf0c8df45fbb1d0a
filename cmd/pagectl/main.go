// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command pagectl is the operator tool for page storage and the catalog schema.
//
// # Commands
//
//   - check: compare every work's stored page count with its record (read-only).
//   - journal: list rename plans left behind by interrupted page operations,
//     or clear one after the directory was repaired by hand.
//   - migrate: apply pending database migrations, or print the schema
//     version with --status.
//   - token: sign a viewer token for staff tooling (needs the private key).
//
// The journal is a single-writer store. Stop the API server before running
// the journal command against the same JOURNAL_PATH.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	context, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(logger).ExecuteContext(context); err != nil {
		fmt.Fprintln(os.Stderr, "pagectl:", err)
		cancel()
		os.Exit(1)
	}
}
