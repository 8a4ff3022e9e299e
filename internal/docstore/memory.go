package docstore

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps documents in process memory. Used by the terminal
// client when no database is configured and by tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
	now  func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document), now: time.Now}
}

func (m *MemoryStore) Write(_ context.Context, path Path, rec Record, opts WriteOptions) error {
	if err := CheckDocumentPath(path); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := path.String()
	data := maps.Clone(rec)
	if existing, ok := m.docs[key]; ok && opts.Merge {
		data = MergeRecords(existing.Data, rec)
	}
	if data == nil {
		data = Record{}
	}
	m.docs[key] = Document{Path: slices.Clone(path), Data: data, UpdatedAt: m.now()}
	return nil
}

func (m *MemoryStore) Read(_ context.Context, path Path) (Record, error) {
	if err := CheckDocumentPath(path); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[path.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return maps.Clone(doc.Data), nil
}

func (m *MemoryStore) List(_ context.Context, collection Path) ([]Document, error) {
	if err := CheckCollectionPath(collection); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := collection.String() + "/"
	var out []Document
	for key, doc := range m.docs {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		out = append(out, Document{Path: slices.Clone(doc.Path), Data: maps.Clone(doc.Data), UpdatedAt: doc.UpdatedAt})
	}
	slices.SortFunc(out, func(a, b Document) int { return strings.Compare(a.Path.ID(), b.Path.ID()) })
	return out, nil
}
