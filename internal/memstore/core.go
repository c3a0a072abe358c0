package memstore

import (
	"context"
	"database/sql"
	"errors"

	"neuronos/pkg/errs"
)

// CoreGet returns the text of the named Core block, and whether it exists.
func (s *Store) CoreGet(ctx context.Context, name string) (string, bool, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT text FROM core_blocks WHERE name = ?`, name).Scan(&text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, wrapIOError("core get", err)
	}
	return text, true, nil
}

// CoreSet upserts the named Core block. It enforces CoreBlockSizeLimit
// on the text and CoreBlockLimit on the number of distinct blocks;
// a new block beyond the cap is rejected rather than silently evicting an
// existing one, since Core blocks are the agent's durable working set.
func (s *Store) CoreSet(ctx context.Context, name, text string) error {
	if len(text) > CoreBlockSizeLimit {
		return errs.InvalidArgument("memstore: core block %q exceeds %d byte limit", name, CoreBlockSizeLimit)
	}

	_, exists, err := s.CoreGet(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		count, err := s.coreBlockCount(ctx)
		if err != nil {
			return err
		}
		if count >= CoreBlockLimit {
			return errs.ResourceExhausted("memstore: core block limit of %d reached", CoreBlockLimit)
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO core_blocks (name, text, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at`,
		name, text, nowTimestamp())
	if err != nil {
		return wrapIOError("core set", err)
	}
	return nil
}

func (s *Store) coreBlockCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM core_blocks`).Scan(&n); err != nil {
		return 0, wrapIOError("core count", err)
	}
	return n, nil
}

// CoreBlock is one named block as returned by CoreAll.
type CoreBlock struct {
	Name string
	Text string
}

// CoreAll returns every Core block, ordered by name, for rendering at the
// head of the composed prompt.
func (s *Store) CoreAll(ctx context.Context) ([]CoreBlock, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, text FROM core_blocks ORDER BY name`)
	if err != nil {
		return nil, wrapIOError("core list", err)
	}
	defer rows.Close()

	var blocks []CoreBlock
	for rows.Next() {
		var b CoreBlock
		if err := rows.Scan(&b.Name, &b.Text); err != nil {
			return nil, wrapIOError("core scan", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapIOError("core rows", err)
	}
	return blocks, nil
}
