package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence shared by all
// event tables. Per-table auto-increment IDs can't order events across
// types (did the hint come before the answer?), so every append takes a
// number from this single counter.
//
// The mutex serializes within the process; the increment and read share a
// transaction so concurrent processes never observe the same value.
type sequenceCounter struct {
	mu    sync.Mutex
	store *Store
}

func newSequenceCounter(ctx context.Context, s *Store) (*sequenceCounter, error) {
	seed := s.builder().Insert(tableSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	if _, err := s.exec(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{store: s}, nil
}

// Next returns the next sequence number and advances the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	b := sc.store.builder()
	tx, err := sc.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	update, uargs := b.Update(tableSequence).Add("next_val", 1).Where(entsql.EQ("id", 1)).Query()
	if _, err := tx.ExecContext(ctx, update, uargs...); err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}

	query, args := b.Select("next_val").From(b.Table(tableSequence)).Where(entsql.EQ("id", 1)).Query()
	var next int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errors.New("sequence row missing")
		}
		return 0, fmt.Errorf("read sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sequence: %w", err)
	}
	return next - 1, nil
}
