// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/taibuivan/comicvault/internal/core/page"
	"github.com/taibuivan/comicvault/internal/platform/config"
	"github.com/taibuivan/comicvault/internal/platform/constants"
	"github.com/taibuivan/comicvault/internal/platform/journal"
	"github.com/taibuivan/comicvault/internal/platform/migration"
	pgstore "github.com/taibuivan/comicvault/internal/platform/postgres"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/storage"
)

// # Root

func newRootCommand(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "pagectl",
		Short:         "Inspect and repair comic page storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCheckCommand(logger),
		newJournalCommand(logger),
		newMigrateCommand(logger),
		newTokenCommand(),
	)
	return root
}

// # check

func newCheckCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report works whose stored page count differs from the record",
		Long: `Compare the number of page files in every work directory with the
page count stored for the work. Published works and open submissions are
both checked. Nothing is modified.`,
		Example: "  pagectl check",
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pool, err := pgstore.NewPool(command.Context(), cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			root, err := storage.NewOS(cfg.ComicsRoot)
			if err != nil {
				return err
			}

			// check only counts files, so the store needs no journal.
			reconciler := page.NewReconciler(page.NewStore(root, nil, logger), page.NewRepository(pool), nil, logger)

			mismatches, err := reconciler.Check(command.Context())
			if err != nil {
				return err
			}
			return printMismatches(command.OutOrStdout(), mismatches)
		},
	}
}

func printMismatches(out io.Writer, mismatches []page.Mismatch) error {
	if len(mismatches) == 0 {
		_, err := fmt.Fprintln(out, "all page counts match")
		return err
	}

	table := tablewriter.NewTable(out)
	table.Header("kind", "id", "name", "recorded", "stored", "error")

	for _, mismatch := range mismatches {
		stored := strconv.Itoa(mismatch.Stored)
		if mismatch.Stored < 0 {
			stored = "-"
		}
		row := []any{
			mismatch.Kind.String(), strconv.FormatInt(mismatch.ID, 10), mismatch.Name,
			strconv.Itoa(mismatch.Recorded), stored, mismatch.Error,
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}

// # journal

// journalStore is the part of the rename journal the command needs.
type journalStore interface {
	Pending() ([]journal.Entry, error)
	Complete(id string) error
}

func newJournalCommand(logger *slog.Logger) *cobra.Command {
	var clearID string

	command := &cobra.Command{
		Use:   "journal",
		Short: "List or clear leftover page rename plans",
		Long: `Each leftover entry names a page operation that stopped half way
and the renames it planned, in execution order. Repair the work directory
by hand, then clear the entry with --clear.`,
		Example: "  pagectl journal\n  pagectl journal --clear 0190c3a1-...",
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			renames, err := journal.Open(cfg.JournalPath, logger)
			if err != nil {
				return err
			}
			defer renames.Close()

			return runJournal(command.OutOrStdout(), renames, clearID)
		},
	}

	command.Flags().StringVar(&clearID, "clear", "", "drop the entry with this id after manual repair")
	return command
}

func runJournal(out io.Writer, renames journalStore, clearID string) error {
	entries, err := renames.Pending()
	if err != nil {
		return err
	}

	if clearID != "" {
		for _, entry := range entries {
			if entry.ID == clearID {
				if err := renames.Complete(clearID); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "cleared %s\n", clearID)
				return err
			}
		}
		return fmt.Errorf("no pending entry with id %s", clearID)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "no pending entries")
		return err
	}

	for _, entry := range entries {
		planned := make([]string, len(entry.Renames))
		for i, rename := range entry.Renames {
			planned[i] = rename.From + " -> " + rename.To
		}
		fmt.Fprintf(out, "%s  %s  %s  %s\n    %s\n",
			entry.ID, entry.StartedAt.Format("2006-01-02T15:04:05Z"), entry.Operation, entry.Work,
			strings.Join(planned, "\n    "))
	}
	return nil
}

// # migrate

func newMigrateCommand(logger *slog.Logger) *cobra.Command {
	var statusOnly bool

	command := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if statusOnly {
				version, err := migration.Status(cfg.DatabaseURL, cfg.MigrationPath, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(command.OutOrStdout(), "schema %s\n", version)
				return nil
			}
			return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger)
		},
	}

	command.Flags().BoolVar(&statusOnly, "status", false, "print the schema version and exit")
	return command
}

// # token

func newTokenCommand() *cobra.Command {
	var (
		viewer sec.Viewer
		role   string
		ttl    time.Duration
	)

	command := &cobra.Command{
		Use:     "token",
		Short:   "Issue a signed viewer token for staff tooling",
		Long:    "Sign an access token with JWT_PRIVATE_KEY_PATH. The API itself never issues tokens.",
		Example: "  pagectl token --id 7 --username kai --role moderator --ttl 2h",
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTPrivKeyPath == "" {
				return sec.ErrSigningDisabled
			}

			tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
			if err != nil {
				return err
			}

			viewer.Role = sec.ParseRole(role)
			return issueToken(command.OutOrStdout(), tokens, viewer, ttl)
		},
	}

	command.Flags().Int64Var(&viewer.ID, "id", 0, "numeric account id")
	command.Flags().StringVar(&viewer.Username, "username", "", "display name carried in the token")
	command.Flags().StringVar(&role, "role", string(sec.RoleModerator), "admin, moderator or member")
	command.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = command.MarkFlagRequired("id")

	return command
}

type tokenIssuer interface {
	Issue(viewer sec.Viewer, timeToLive time.Duration) (string, error)
}

func issueToken(out io.Writer, tokens tokenIssuer, viewer sec.Viewer, ttl time.Duration) error {
	switch {
	case viewer.ID <= 0:
		return fmt.Errorf("--id must be a positive account id")
	case viewer.Role == "":
		return fmt.Errorf("--role must be one of admin, moderator, member")
	case ttl <= 0:
		return fmt.Errorf("--ttl must be positive")
	}

	token, err := tokens.Issue(viewer, ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
