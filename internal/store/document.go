package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathmentor/internal/docstore"
)

// DocumentRepo stores hierarchical documents in a single SQL table keyed
// by the full path, with the parent collection path indexed for listing.
type DocumentRepo struct {
	store *Store
}

var _ docstore.Store = (*DocumentRepo)(nil)

func (r *DocumentRepo) Write(ctx context.Context, path docstore.Path, rec docstore.Record, opts docstore.WriteOptions) error {
	if err := docstore.CheckDocumentPath(path); err != nil {
		return err
	}

	r.store.docMu.Lock()
	defer r.store.docMu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	key := path.String()
	existing, found, err := r.read(ctx, tx, key)
	if err != nil {
		return err
	}

	data := rec
	if found && opts.Merge {
		data = docstore.MergeRecords(existing, rec)
	}
	if data == nil {
		data = docstore.Record{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	b := r.store.builder()
	now := time.Now().UTC()
	var stmt entsql.Querier
	if found {
		stmt = b.Update(tableDocuments).
			Set("data", string(raw)).
			Set("updated_at", now).
			Where(entsql.EQ("path", key))
	} else {
		stmt = b.Insert(tableDocuments).
			Columns("path", "parent", "data", colCreatedAt, "updated_at").
			Values(key, path.Parent().String(), string(raw), now, now)
	}
	query, args := stmt.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

func (r *DocumentRepo) Read(ctx context.Context, path docstore.Path) (docstore.Record, error) {
	if err := docstore.CheckDocumentPath(path); err != nil {
		return nil, err
	}
	rec, found, err := r.read(ctx, r.store.db, path.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, docstore.ErrNotFound
	}
	return rec, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *DocumentRepo) read(ctx context.Context, q queryRower, key string) (docstore.Record, bool, error) {
	b := r.store.builder()
	query, args := b.Select("data").From(b.Table(tableDocuments)).Where(entsql.EQ("path", key)).Query()

	var raw []byte
	err := q.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}

	var rec docstore.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	if rec == nil {
		rec = docstore.Record{}
	}
	return rec, true, nil
}

func (r *DocumentRepo) List(ctx context.Context, collection docstore.Path) ([]docstore.Document, error) {
	if err := docstore.CheckCollectionPath(collection); err != nil {
		return nil, err
	}

	b := r.store.builder()
	query, args := b.Select("path", "data", "updated_at").
		From(b.Table(tableDocuments)).
		Where(entsql.EQ("parent", collection.String())).
		OrderBy("path").
		Query()

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var key string
		var raw []byte
		var updated time.Time
		if err := rows.Scan(&key, &raw, &updated); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		p, err := docstore.ParsePath(key)
		if err != nil {
			return nil, err
		}
		var rec docstore.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out = append(out, docstore.Document{Path: p, Data: rec, UpdatedAt: updated})
	}
	return out, rows.Err()
}
