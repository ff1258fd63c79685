package docstore

import (
	"context"
	"errors"
	"fmt"
)

// Document is a single schemaless record as stored in a collection. The
// store assigns an opaque identifier on insert and surfaces it under the
// "id" key when listing.
type Document map[string]any

// Client defines the minimal contract the repositories require from the
// underlying document store.
type Client interface {
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	List(ctx context.Context, collection string, limit int) ([]Document, error)
	Collections(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// ErrUnavailable indicates the store cannot be reached. Callers surface it
// to the client; nothing in the core retries.
var ErrUnavailable = errors.New("document store unavailable")

// WriteError wraps a rejected write for a specific collection.
type WriteError struct {
	Collection string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to collection %q rejected: %v", e.Collection, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
