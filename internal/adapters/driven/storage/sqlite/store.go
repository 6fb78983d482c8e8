// Package sqlite provides the durable document store backing the
// knowledge base.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/corpuskit/corpus-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.corpus/data/knowledge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpus", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "knowledge.db")

	// WAL mode so concurrent readers are not blocked by the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores or replaces a document. Replacing under the same file_id
// overwrites everything but preserves created_time.
func (s *Store) Save(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (file_id, file_name, file_path, content, metadata, tags, category, created_time, updated_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			file_name = excluded.file_name,
			file_path = excluded.file_path,
			content = excluded.content,
			metadata = excluded.metadata,
			tags = excluded.tags,
			category = excluded.category,
			updated_time = excluded.updated_time
	`, doc.FileID, doc.FileName, doc.FilePath, doc.Content, string(metadataJSON),
		joinTags(doc.Tags), doc.Category, doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by file ID.
func (s *Store) Get(ctx context.Context, fileID string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT file_id, file_name, file_path, content, metadata, tags, category, created_time, updated_time
		FROM documents WHERE file_id = ?
	`, fileID)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, fileID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every document, most recently created first, with file_id
// as a deterministic tie-break.
func (s *Store) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_id, file_name, file_path, content, metadata, tags, category, created_time, updated_time
		FROM documents ORDER BY created_time DESC, file_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// UpdateTags replaces a document's tags and refreshes updated_time.
func (s *Store) UpdateTags(ctx context.Context, fileID string, tags []string) error {
	return s.updateField(ctx, fileID, "tags", joinTags(domain.NormalizeTags(tags)))
}

// UpdateCategory replaces a document's category and refreshes updated_time.
func (s *Store) UpdateCategory(ctx context.Context, fileID string, category string) error {
	return s.updateField(ctx, fileID, "category", category)
}

// updateField sets a single column and updated_time. The column name is
// always a compile-time constant, never caller input.
func (s *Store) updateField(ctx context.Context, fileID, column, value string) error {
	//nolint:gosec // column is a trusted constant, not user input
	query := fmt.Sprintf("UPDATE documents SET %s = ?, updated_time = ? WHERE file_id = ?", column)

	result, err := s.db.ExecContext(ctx, query, value, time.Now().UTC(), fileID)
	if err != nil {
		return fmt.Errorf("updating %s: %w", column, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner abstracts Row and Rows for scanDocument.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one document row.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON, tags string
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&doc.FileID, &doc.FileName, &doc.FilePath, &doc.Content,
		&metadataJSON, &tags, &doc.Category, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}

	doc.Tags = splitTags(tags)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}

// joinTags serialises tags into the comma-joined column format.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// splitTags parses the comma-joined column format, dropping empties.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
