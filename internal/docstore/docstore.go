// Package docstore is a hierarchical document store addressed by paths of
// alternating collection and document segments, e.g.
// guardians/{guardianID}/students/{studentID}/problems/{problemID}.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"
)

// ErrNotFound is returned by Read when no document exists at the path.
var ErrNotFound = errors.New("docstore: document not found")

// Record is the content of a document. Keys are flat field names.
type Record map[string]any

// Document is a stored record with its location.
type Document struct {
	Path      Path
	Data      Record
	UpdatedAt time.Time
}

// WriteOptions controls how Write combines with an existing document.
type WriteOptions struct {
	// Merge keeps existing top-level fields that the new record does not
	// mention. Without it the document is replaced.
	Merge bool
}

// Store reads and writes documents.
type Store interface {
	// Write creates or updates the document at path.
	Write(ctx context.Context, path Path, rec Record, opts WriteOptions) error

	// Read returns the document at path or ErrNotFound.
	Read(ctx context.Context, path Path) (Record, error)

	// List returns the documents directly inside a collection, ordered by ID.
	List(ctx context.Context, collection Path) ([]Document, error)
}

// MergeRecords overlays src onto a copy of dst at the top level.
func MergeRecords(dst, src Record) Record {
	out := make(Record, len(dst)+len(src))
	maps.Copy(out, dst)
	maps.Copy(out, src)
	return out
}

// Encode converts a JSON-tagged struct into a Record.
func Encode(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// Decode fills a JSON-tagged struct from a Record.
func Decode(rec Record, v any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// CheckDocumentPath validates that path addresses a document.
func CheckDocumentPath(path Path) error {
	if err := path.Validate(); err != nil {
		return err
	}
	if !path.IsDocument() {
		return fmt.Errorf("%w: %q is a collection path", ErrInvalidPath, path.String())
	}
	return nil
}

// CheckCollectionPath validates that path addresses a collection.
func CheckCollectionPath(path Path) error {
	if err := path.Validate(); err != nil {
		return err
	}
	if path.IsDocument() {
		return fmt.Errorf("%w: %q is a document path", ErrInvalidPath, path.String())
	}
	return nil
}
