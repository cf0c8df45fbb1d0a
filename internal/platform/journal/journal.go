// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package journal records multi-step page operations in a local badger store.

A page operation (insert, delete, swap) is a sequence of renames with no
rollback. Before the first rename the full plan is written here and after
the last rename the entry is removed. An entry that survives therefore
names an operation that stopped half way, together with the exact renames
it intended, so an operator can repair the directory by hand.

The journal is diagnostic only. Nothing replays it automatically.
*/
package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/taibuivan/comicvault/internal/platform/constants"
)

// # Entries

// Rename is one planned file move.
type Rename struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Entry is one in-flight (or abandoned) page operation.
type Entry struct {
	ID        string    `json:"id"`
	Work      string    `json:"work"`
	Operation string    `json:"operation"`
	Renames   []Rename  `json:"renames"`
	StartedAt time.Time `json:"started_at"`
}

// # Store

// Journal is a badger-backed store of [Entry] values.
type Journal struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the journal at dir.
func Open(dir string, logger *slog.Logger) (*Journal, error) {
	return open(badger.DefaultOptions(dir), logger)
}

// OpenInMemory opens a journal that lives only as long as the process.
func OpenInMemory(logger *slog.Logger) (*Journal, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(options badger.Options, logger *slog.Logger) (*Journal, error) {
	db, err := badger.Open(options.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open: %w", err)
	}
	return &Journal{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying store.
func (journal *Journal) Close() error {
	return journal.db.Close()
}

/*
Begin persists the plan of an operation and returns its id.

Parameters:
  - work: string (work directory name)
  - operation: string (insert, delete, swap)
  - renames: []Rename (in execution order)

Returns:
  - string: entry id to pass to [Journal.Complete]
  - error: write failures
*/
func (journal *Journal) Begin(work, operation string, renames []Rename) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	entry := Entry{
		ID:        id.String(),
		Work:      work,
		Operation: operation,
		Renames:   renames,
		StartedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("journal: failed to encode entry: %w", err)
	}

	err = journal.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(entry.ID), payload)
	})
	if err != nil {
		return "", fmt.Errorf("journal: failed to write entry: %w", err)
	}

	return entry.ID, nil
}

// Complete removes the entry for a finished operation.
func (journal *Journal) Complete(id string) error {
	err := journal.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
	if err != nil {
		return fmt.Errorf("journal: failed to complete %s: %w", id, err)
	}
	return nil
}

// Pending lists every entry that was begun but never completed, oldest first.
func (journal *Journal) Pending() ([]Entry, error) {
	var entries []Entry
	prefix := []byte(constants.JournalPrefixPending)

	err := journal.db.View(func(txn *badger.Txn) error {
		iterator := txn.NewIterator(badger.DefaultIteratorOptions)
		defer iterator.Close()

		for iterator.Seek(prefix); iterator.ValidForPrefix(prefix); iterator.Next() {
			payload, err := iterator.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			var entry Entry
			if err := json.Unmarshal(payload, &entry); err != nil {
				journal.logger.Warn("journal_entry_corrupt", slog.String("key", string(iterator.Item().Key())))
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("journal: failed to list entries: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})

	return entries, nil
}

func key(id string) []byte {
	return []byte(constants.JournalPrefixPending + id)
}
