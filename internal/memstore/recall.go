package memstore

import (
	"context"

	"neuronos/pkg/errs"
	"neuronos/pkg/types"
)

// Entry is one record in the Recall or Archival tier (the // (timestamp, role, text) shape, plus an optional tag used by the
// compaction summary record).
type Entry struct {
	ID int64
	TS string
	Role types.Role
	Text string
	Tag string
}

// SearchResult pairs an Entry with its FTS5 rank-derived score.
type SearchResult struct {
	Entry Entry
	Score float64
}

// RecallAppend appends a record to the Recall tier. Durability is
// write-through: the insert is committed before this call returns.
func (s *Store) RecallAppend(ctx context.Context, role types.Role, text, tag string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recall_entries (ts, role, text, tag) VALUES (?, ?, ?, ?)`,
		nowTimestamp(), string(role), text, tag)
	if err != nil {
		return 0, wrapIOError("recall append", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapIOError("recall append id", err)
	}
	return id, nil
}

// RecallSearch returns the top-k Recall entries matching query, ranked by
// FTS5 BM25 score (the search(query, k) -> top-k by score).
func (s *Store) RecallSearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	return s.ftsSearch(ctx, "recall_entries", "recall_fts", query, k)
}

// RecallRecent returns the n most recently appended Recall entries in
// chronological order. The agent composes its prompt from its own
// in-memory turns, not from this call.
func (s *Store) RecallRecent(ctx context.Context, n int) ([]Entry, error) {
	return s.recent(ctx, "recall_entries", n)
}

// RecallCount returns the total number of Recall entries, used by
// garbage collection to decide whether the size cap is exceeded.
func (s *Store) RecallCount(ctx context.Context) (int, error) {
	return s.count(ctx, "recall_entries")
}

// RecallTruncateOldest deletes the n oldest Recall entries, used by the // garbage collection once the tier exceeds its size cap.
func (s *Store) RecallTruncateOldest(ctx context.Context, n int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM recall_entries WHERE id IN (SELECT id FROM recall_entries ORDER BY id ASC LIMIT ?)`, n)
	if err != nil {
		return wrapIOError("recall truncate", err)
	}
	return nil
}

// ArchivalAppend appends a record to the Archival tier. It places no
// restriction on its caller; no built-in tool calls it.
func (s *Store) ArchivalAppend(ctx context.Context, role types.Role, text, tag string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO archival_entries (ts, role, text, tag) VALUES (?, ?, ?, ?)`,
		nowTimestamp(), string(role), text, tag)
	if err != nil {
		return 0, wrapIOError("archival append", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapIOError("archival append id", err)
	}
	return id, nil
}

// ArchivalSearch returns the top-k Archival entries matching query,
// ranked by FTS5 BM25 score. No built-in tool calls it.
func (s *Store) ArchivalSearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	return s.ftsSearch(ctx, "archival_entries", "archival_fts", query, k)
}

func (s *Store) recent(ctx context.Context, table string, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, role, text, tag FROM `+table+` ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, wrapIOError("recent query", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var role string
		if err := rows.Scan(&e.ID, &e.TS, &role, &e.Text, &e.Tag); err != nil {
			return nil, wrapIOError("recent scan", err)
		}
		e.Role = types.Role(role)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapIOError("recent rows", err)
	}
	// reverse to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *Store) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, wrapIOError("count", err)
	}
	return n, nil
}

// ftsSearch runs an FTS5 MATCH query against ftsTable, joining back to
// table for the full entry, ordered by BM25 rank. An empty query returns
// no results, mirroring the pack's FTS5Search acceptance behavior.
func (s *Store) ftsSearch(ctx context.Context, table, ftsTable, query string, k int) ([]SearchResult, error) {
	if query == "" {
		return nil, nil
	}
	if k <= 0 {
		return nil, errs.InvalidArgument("memstore: search limit must be positive")
	}

	sanitized := sanitizeFTSQuery(query)
	if sanitized == "" {
		return nil, nil
	}

	q := `
		SELECT e.id, e.ts, e.role, e.text, e.tag, bm25(` + ftsTable + `) AS score
		FROM ` + ftsTable + `
		JOIN ` + table + ` e ON ` + ftsTable + `.rowid = e.id
		WHERE ` + ftsTable + ` MATCH ?
		ORDER BY score
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, q, sanitized, k)
	if err != nil {
		return nil, wrapIOError("fts search", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var role string
		if err := rows.Scan(&r.Entry.ID, &r.Entry.TS, &role, &r.Entry.Text, &r.Entry.Tag, &r.Score); err != nil {
			return nil, wrapIOError("fts scan", err)
		}
		r.Entry.Role = types.Role(role)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapIOError("fts rows", err)
	}
	return out, nil
}
