package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id         TEXT PRIMARY KEY,
    collection TEXT NOT NULL,
    body       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_collection
    ON documents(collection, created_at);
`

// Options configures the SQLite-backed document store.
type Options struct {
	Path         string
	MaxOpenConns int
}

// SQLiteClient implements Client on top of an embedded SQLite database.
// Each record is stored as a JSON body keyed by a generated identifier;
// the collection column stands in for a document-database collection.
type SQLiteClient struct {
	db   *sql.DB
	path string
}

// NewSQLiteClient opens (creating if necessary) the database file and
// bootstraps the schema. WAL mode is enabled so readers do not block the
// writer.
func NewSQLiteClient(opts Options) (*SQLiteClient, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", opts.Path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize store schema: %w", err)
	}

	return &SQLiteClient{db: db, path: opts.Path}, nil
}

// Insert stores the document and returns its assigned identifier.
func (c *SQLiteClient) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", &WriteError{Collection: collection, Err: err}
	}

	id := uuid.NewString()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, body, created_at) VALUES (?, ?, ?, ?)`,
		id, collection, string(body), time.Now().UTC(),
	)
	if err != nil {
		return "", &WriteError{Collection: collection, Err: err}
	}
	return id, nil
}

// List returns up to limit documents from the collection in insertion
// order. An unknown collection yields an empty slice, not an error.
func (c *SQLiteClient) List(ctx context.Context, collection string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ? ORDER BY created_at, id LIMIT ?`,
		collection, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc := Document{}
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		doc["id"] = id
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return docs, nil
}

// Collections returns the distinct collection names currently present.
func (c *SQLiteClient) Collections(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT DISTINCT collection FROM documents ORDER BY collection`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return names, nil
}

// Ping verifies the database file is still reachable.
func (c *SQLiteClient) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *SQLiteClient) Path() string {
	return c.path
}
