// Package memstore implements the three-tier memory subsystem:
// Core (bounded named blocks, reflected verbatim at the head of every
// prompt), Recall (append-only turn log with full-text search, subject
// to garbage collection), and Archival (same shape as Recall; none of the
// built-in tools reads or writes it). All three tiers share a single
// embedded relational store: one *sql.DB, one schema migration applied
// at open time, FTS5 virtual tables kept in sync via triggers on the
// content tables.
package memstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"neuronos/pkg/errs"
)

// CoreBlockLimit bounds how many named Core blocks may exist at once.
const CoreBlockLimit = 8

// CoreBlockSizeLimit bounds the text size of a single Core block.
const CoreBlockSizeLimit = 2048

// schemaDDL creates the three logical tables plus the FTS5 indexes over
// Recall and Archival. recall_fts/archival_fts are external-content FTS5
// tables, kept in sync with their content tables by AFTER triggers.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS core_blocks (
	name TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recall_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	role TEXT NOT NULL,
	text TEXT NOT NULL,
	tag TEXT NOT NULL DEFAULT ''
);

CREATE VIRTUAL TABLE IF NOT EXISTS recall_fts USING fts5(
	text, content=recall_entries, content_rowid=id
);

CREATE TRIGGER IF NOT EXISTS recall_ai AFTER INSERT ON recall_entries BEGIN
	INSERT INTO recall_fts(rowid, text) VALUES (new.id, new.text);
END;
CREATE TRIGGER IF NOT EXISTS recall_ad AFTER DELETE ON recall_entries BEGIN
	INSERT INTO recall_fts(recall_fts, rowid, text) VALUES ('delete', old.id, old.text);
END;
CREATE TRIGGER IF NOT EXISTS recall_au AFTER UPDATE ON recall_entries BEGIN
	INSERT INTO recall_fts(recall_fts, rowid, text) VALUES ('delete', old.id, old.text);
	INSERT INTO recall_fts(rowid, text) VALUES (new.id, new.text);
END;

CREATE TABLE IF NOT EXISTS archival_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	role TEXT NOT NULL,
	text TEXT NOT NULL,
	tag TEXT NOT NULL DEFAULT ''
);

CREATE VIRTUAL TABLE IF NOT EXISTS archival_fts USING fts5(
	text, content=archival_entries, content_rowid=id
);

CREATE TRIGGER IF NOT EXISTS archival_ai AFTER INSERT ON archival_entries BEGIN
	INSERT INTO archival_fts(rowid, text) VALUES (new.id, new.text);
END;
CREATE TRIGGER IF NOT EXISTS archival_ad AFTER DELETE ON archival_entries BEGIN
	INSERT INTO archival_fts(archival_fts, rowid, text) VALUES ('delete', old.id, old.text);
END;
CREATE TRIGGER IF NOT EXISTS archival_au AFTER UPDATE ON archival_entries BEGIN
	INSERT INTO archival_fts(archival_fts, rowid, text) VALUES ('delete', old.id, old.text);
	INSERT INTO archival_fts(rowid, text) VALUES (new.id, new.text);
END;
`

// Store is the embedded relational store backing all three memory tiers.
type Store struct {
	db *sql.DB
}

// Open opens or creates the memory database at path, applying the schema
// and setting WAL mode / busy_timeout (the write-through durability
// needs a busy_timeout so a concurrent writer retries rather than fails).
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errs.IOError("memstore: create directory for %s: %v", path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.IOError("memstore: open %s: %v", path, err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.IOError("memstore: ping %s: %v", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, errs.IOError("memstore: set WAL mode: %v", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, errs.IOError("memstore: set busy_timeout: %v", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, errs.IOError("memstore: apply schema: %v", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errs.IOError("memstore: close: %v", err)
	}
	return nil
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func wrapIOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return errs.IOError("memstore: %s: %v", op, err)
}
