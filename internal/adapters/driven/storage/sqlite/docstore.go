package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// TableName returns the document table name used for cacheKey.
func TableName(cacheKey string) string {
	sum := sha256.Sum256([]byte(cacheKey))
	return "documents_" + hex.EncodeToString(sum[:8])
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore over one table.
type documentStore struct {
	store    *Store
	cacheKey string
	table    string
}

var _ driven.DocumentStore = (*documentStore)(nil)

// BulkPut inserts or replaces documents in a single transaction.
func (s *documentStore) BulkPut(ctx context.Context, docs []domain.Document) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := s.ensureTable(ctx, tx); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT OR REPLACE INTO %q (id, title, path, content, fields) VALUES (?, ?, ?, ?, ?)`, s.table))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		fields, err := marshalFields(doc.Fields)
		if err != nil {
			return fmt.Errorf("marshalling fields of document %d: %w", doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Title, doc.Path, doc.Content, fields); err != nil {
			return fmt.Errorf("inserting document %d: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing documents: %w", err)
	}

	logger.Debug("Stored %d documents in %s (cache key %q)", len(docs), s.table, s.cacheKey)
	return nil
}

// ensureTable creates the document table and registers it.
func (s *documentStore) ensureTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			id      INTEGER PRIMARY KEY,
			title   TEXT NOT NULL,
			path    TEXT NOT NULL,
			content TEXT NOT NULL,
			fields  TEXT
		)`, s.table))
	if err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO corpus_tables (cache_key, table_name, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET updated_at = excluded.updated_at`,
		s.cacheKey, s.table, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("registering table %s: %w", s.table, err)
	}
	return nil
}

// Get retrieves a document by id.
func (s *documentStore) Get(ctx context.Context, id int) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT id, title, path, content, fields FROM %q WHERE id = ?`, s.table), id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		exists, existsErr := s.exists(ctx)
		if existsErr == nil && !exists {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting document %d: %w", id, err)
	}
	return doc, nil
}

// All returns every document ordered by id.
func (s *documentStore) All(ctx context.Context) ([]domain.Document, error) {
	exists, err := s.exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []domain.Document{}, nil
	}

	rows, err := s.store.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, title, path, content, fields FROM %q ORDER BY id`, s.table))
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// Count returns the number of stored documents.
func (s *documentStore) Count(ctx context.Context) (int, error) {
	exists, err := s.exists(ctx)
	if err != nil || !exists {
		return 0, err
	}

	var n int
	if err := s.store.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %q`, s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Drop removes the table and its registry entry.
func (s *documentStore) Drop(ctx context.Context) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, s.table)); err != nil {
		return fmt.Errorf("dropping table %s: %w", s.table, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM corpus_tables WHERE cache_key = ?`, s.cacheKey); err != nil {
		return fmt.Errorf("unregistering table %s: %w", s.table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing drop: %w", err)
	}

	logger.Debug("Dropped document table %s (cache key %q)", s.table, s.cacheKey)
	return nil
}

func (s *documentStore) exists(ctx context.Context) (bool, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", s.table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", s.table, err)
	}
	return n > 0, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var fields sql.NullString
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Path, &doc.Content, &fields); err != nil {
		return nil, err
	}
	if fields.Valid && fields.String != "" && fields.String != jsonNull {
		if err := json.Unmarshal([]byte(fields.String), &doc.Fields); err != nil {
			return nil, fmt.Errorf("unmarshalling fields of document %d: %w", doc.ID, err)
		}
	}
	return &doc, nil
}

func marshalFields(fields map[string]string) (sql.NullString, error) {
	if len(fields) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
