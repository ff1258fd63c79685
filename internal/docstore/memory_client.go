package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryClient is a simple in-memory implementation of the Client interface
// used for unit testing repository logic without touching a database file.
type MemoryClient struct {
	mu        sync.Mutex
	docs      map[string][]stored
	insertErr error
	listErr   error
	pingErr   error
}

type stored struct {
	id  string
	doc Document
}

// NewMemoryClient instantiates an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{docs: make(map[string][]stored)}
}

// WithInsertError configures the client to reject subsequent inserts.
func (m *MemoryClient) WithInsertError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertErr = err
	return m
}

// WithListError configures the client to fail subsequent list calls.
func (m *MemoryClient) WithListError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
	return m
}

// WithPingError forces Ping to return the supplied error.
func (m *MemoryClient) WithPingError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
	return m
}

func (m *MemoryClient) Insert(_ context.Context, collection string, doc Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return "", &WriteError{Collection: collection, Err: m.insertErr}
	}

	id := uuid.NewString()
	m.docs[collection] = append(m.docs[collection], stored{id: id, doc: cloneDocument(doc)})
	return id, nil
}

func (m *MemoryClient) List(_ context.Context, collection string, limit int) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit <= 0 {
		limit = 20
	}

	entries := m.docs[collection]
	if len(entries) > limit {
		entries = entries[:limit]
	}

	var out []Document
	for _, entry := range entries {
		doc := cloneDocument(entry.doc)
		doc["id"] = entry.id
		out = append(out, doc)
	}
	return out, nil
}

func (m *MemoryClient) Collections(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	var names []string
	for name, entries := range m.docs {
		if len(entries) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryClient) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

func (m *MemoryClient) Close() error {
	return nil
}

// Count reports the number of documents held in a collection.
func (m *MemoryClient) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection])
}

// Inserted returns a snapshot of the raw documents stored in a collection,
// without store-assigned identifiers.
func (m *MemoryClient) Inserted(collection string) []Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Document
	for _, entry := range m.docs[collection] {
		out = append(out, cloneDocument(entry.doc))
	}
	return out
}

func cloneDocument(src Document) Document {
	if src == nil {
		return nil
	}
	dst := make(Document, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
