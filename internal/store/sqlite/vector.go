// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/store"
	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

func init() {
	sqlite_vec.Auto()
}

// Compile-time interface check.
var _ store.VectorStore = (*VectorStore)(nil)

// VectorStore implements store.VectorStore backed by SQLite with sqlite-vec.
// Documents and chunks live in plain tables; embeddings live in a vec0
// virtual table keyed by chunk ID.
type VectorStore struct {
	db         *sql.DB
	dimensions int
}

// NewVectorStore opens (or creates) a SQLite database at dbPath and
// initialises the vec0 virtual table plus the documents/chunks tables.
// The embedding dimension is fixed at creation; reopening with a different
// dimension is an error.
func NewVectorStore(dbPath string, dimensions int) (*VectorStore, error) {
	if dimensions <= 0 {
		return nil, apperr.Errorf(apperr.CodeStoreInvalidInput, "vector dimensions must be positive, got %d", dimensions)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "pinging sqlite db: %w", err)
	}

	if err := migrate(db, dimensions); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &VectorStore{db: db, dimensions: dimensions}, nil
}

func migrate(db *sql.DB, dimensions int) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	file_path  TEXT NOT NULL DEFAULT '',
	fetched_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id),
	source      TEXT NOT NULL,
	position    INTEGER NOT NULL,
	content     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id, position);

CREATE TABLE IF NOT EXISTS store_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
	if _, err := db.Exec(ddl); err != nil {
		return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "migrating document tables: %w", err)
	}

	vecDDL := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS vectors USING vec0(id TEXT PRIMARY KEY, embedding float[%d])`,
		dimensions,
	)
	if _, err := db.Exec(vecDDL); err != nil {
		return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "creating vectors virtual table: %w", err)
	}

	return checkDimensions(db, dimensions)
}

// checkDimensions pins the embedding dimension on first open and rejects
// reopening an existing store with a different one.
func checkDimensions(db *sql.DB, dimensions int) error {
	var stored string
	err := db.QueryRow(`SELECT value FROM store_meta WHERE key = 'dimensions'`).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`INSERT INTO store_meta(key, value) VALUES ('dimensions', ?)`, strconv.Itoa(dimensions))
		if err != nil {
			return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "recording store dimensions: %w", err)
		}
		return nil
	case err != nil:
		return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "reading store dimensions: %w", err)
	}

	if stored != strconv.Itoa(dimensions) {
		return apperr.Errorf(apperr.CodeStoreDimensionMismatch,
			"store was created with %s-dimensional vectors, configured for %d", stored, dimensions)
	}
	return nil
}

// Add appends a document, its chunks, and their vectors in one transaction.
func (v *VectorStore) Add(ctx context.Context, doc store.Document, chunks []store.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return apperr.Errorf(apperr.CodeStoreInvalidInput,
			"chunk/vector count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != v.dimensions {
			return apperr.Errorf(apperr.CodeStoreDimensionMismatch,
				"vector %d has dimension %d, store expects %d", i, len(vec), v.dimensions)
		}
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const docQ = `INSERT INTO documents(id, source, kind, title, file_path, fetched_at)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, docQ,
		doc.ID, doc.Source, string(doc.Kind), doc.Title, doc.FilePath, doc.FetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return apperr.Wrapf(err, apperr.CodeStoreDatabaseFailure, "inserting document %s", doc.ID)
	}

	const chunkQ = `INSERT INTO chunks(id, document_id, source, position, content) VALUES (?, ?, ?, ?, ?)`
	for i, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, chunkQ, chunk.ID, chunk.DocumentID, chunk.Source, chunk.Position, chunk.Text); err != nil {
			return apperr.Wrapf(err, apperr.CodeStoreDatabaseFailure, "inserting chunk %s", chunk.ID)
		}

		blob, err := sqlite_vec.SerializeFloat32(vectors[i])
		if err != nil {
			return apperr.Errorf(apperr.CodeStoreInvalidInput, "serializing embedding for chunk %s: %w", chunk.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO vectors(id, embedding) VALUES (?, ?)`, chunk.ID, blob); err != nil {
			return apperr.Wrapf(err, apperr.CodeStoreDatabaseFailure, "inserting vector for chunk %s", chunk.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "committing ingest: %w", err)
	}
	return nil
}

// Query performs a k-nearest-neighbor search. Distance is L2 (lower = more
// similar). An empty store returns no rows.
func (v *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]store.QueryResult, error) {
	if k <= 0 {
		return nil, apperr.Errorf(apperr.CodeStoreInvalidInput, "k must be positive, got %d", k)
	}
	if len(vector) != v.dimensions {
		return nil, apperr.Errorf(apperr.CodeStoreDimensionMismatch,
			"query vector has dimension %d, store expects %d", len(vector), v.dimensions)
	}

	blob, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return nil, apperr.Errorf(apperr.CodeStoreInvalidInput, "serializing query vector: %w", err)
	}

	const q = `SELECT v.id, v.distance, c.document_id, c.source, c.position, c.content
FROM vectors v
JOIN chunks c ON c.id = v.id
WHERE v.embedding MATCH ? AND k = ?
ORDER BY v.distance`

	rows, err := v.db.QueryContext(ctx, q, blob, k)
	if err != nil {
		return nil, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "searching vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []store.QueryResult
	for rows.Next() {
		var r store.QueryResult
		if err := rows.Scan(&r.Chunk.ID, &r.Distance, &r.Chunk.DocumentID, &r.Chunk.Source, &r.Chunk.Position, &r.Chunk.Text); err != nil {
			return nil, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "scanning query result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "iterating query results: %w", err)
	}

	return results, nil
}

// Documents lists all ingested documents, newest first.
func (v *VectorStore) Documents(ctx context.Context) ([]store.Document, error) {
	const q = `SELECT id, source, kind, title, file_path, fetched_at FROM documents ORDER BY fetched_at DESC`

	rows, err := v.db.QueryContext(ctx, q)
	if err != nil {
		return nil, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "listing documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []store.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "iterating documents: %w", err)
	}

	return docs, nil
}

// Document fetches a single document by ID.
func (v *VectorStore) Document(ctx context.Context, id string) (store.Document, error) {
	const q = `SELECT id, source, kind, title, file_path, fetched_at FROM documents WHERE id = ?`

	row := v.db.QueryRowContext(ctx, q, id)
	doc, err := scanDocument(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Document{}, apperr.Errorf(apperr.CodeStoreDocumentNotFound, "document %s not found", id)
	}
	return doc, err
}

// ChunkCount reports how many chunks the store holds.
func (v *VectorStore) ChunkCount(ctx context.Context) (int64, error) {
	var n int64
	if err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "counting chunks: %w", err)
	}
	return n, nil
}

// Reset removes all documents, chunks, and vectors.
func (v *VectorStore) Reset(ctx context.Context) error {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM vectors`,
		`DELETE FROM chunks`,
		`DELETE FROM documents`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "resetting store: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Errorf(apperr.CodeStoreDatabaseFailure, "committing reset: %w", err)
	}
	return nil
}

// Dimensions returns the fixed embedding dimension of this store.
func (v *VectorStore) Dimensions() int {
	return v.dimensions
}

// Close closes the underlying database connection.
func (v *VectorStore) Close() error {
	return v.db.Close()
}

// scanDocument reads one documents row via the given scan function.
func scanDocument(scan func(...any) error) (store.Document, error) {
	var doc store.Document
	var kind, fetchedAt string

	if err := scan(&doc.ID, &doc.Source, &kind, &doc.Title, &doc.FilePath, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Document{}, err
		}
		return store.Document{}, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "scanning document: %w", err)
	}

	doc.Kind = store.DocumentKind(kind)
	ts, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return store.Document{}, apperr.Errorf(apperr.CodeStoreDatabaseFailure, "parsing fetched_at %q: %w", fetchedAt, err)
	}
	doc.FetchedAt = ts

	return doc, nil
}
