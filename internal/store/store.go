// Package store implements the embedded index store (SPEC_FULL.md §4.1): a
// single SQLite file holding one row per indexed file or directory, reached
// through database/sql and tuned for high-throughput batched writes over
// read durability, since the index is always fully reconstructible.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ale-01cu/oxisearch/internal/record"
)

// Sentinel error kinds (SPEC_FULL.md §7).
var (
	ErrInit  = errors.New("store: init failed")
	ErrWrite = errors.New("store: write failed")
	ErrQuery = errors.New("store: query failed")
)

// Store owns the single connection to the index database for the process
// lifetime and serializes every read and write through one mutex (SPEC_FULL.md
// §5: the workload is dominated by large batched writes, so a reader/writer
// split buys nothing while SQLite already serializes writes internally).
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS search_index (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	extension TEXT,
	file_size INTEGER,
	is_dir INTEGER NOT NULL,
	modified_time TEXT NOT NULL,
	last_indexed TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_name ON search_index(name);
CREATE INDEX IF NOT EXISTS idx_search_extension ON search_index(extension);
CREATE INDEX IF NOT EXISTS idx_search_size ON search_index(file_size);
CREATE INDEX IF NOT EXISTS idx_search_modified ON search_index(modified_time);
CREATE INDEX IF NOT EXISTS idx_search_is_dir ON search_index(is_dir);
`

// pragmas trade durability for throughput: a crash mid-write can corrupt the
// file, which is acceptable because the index is always reconstructible by
// reindexing (SPEC_FULL.md §4.1).
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=OFF",
	"PRAGMA cache_size=-51200", // ~50 MiB, negative = KiB
	"PRAGMA temp_store=MEMORY",
}

// Open creates or opens the index database at dbPath and ensures its schema.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create dir %s: %v", ErrInit, dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInit, dbPath, err)
	}
	db.SetMaxOpenConns(1) // single-writer, single-connection store

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: pragma %q: %v", ErrInit, p, err)
		}
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: schema: %v", ErrInit, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Upsert inserts or atomically replaces the record keyed on its path.
func (s *Store) Upsert(r record.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(r)
}

func (s *Store) upsertLocked(r record.FileRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO search_index (path, name, extension, file_size, is_dir, modified_time, last_indexed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			name=excluded.name, extension=excluded.extension, file_size=excluded.file_size,
			is_dir=excluded.is_dir, modified_time=excluded.modified_time, last_indexed=excluded.last_indexed`,
		r.Path, r.Name, r.Extension, r.FileSize, boolToInt(r.IsDir), r.ModifiedTime, r.LastIndexed,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ErrWrite, r.Path, err)
	}
	return nil
}

// UpsertBatch persists many records in a single transaction. Failure rolls
// back the whole transaction; the batch is never partially persisted
// (SPEC_FULL.md §4.1, testable property 8).
func (s *Store) UpsertBatch(records []record.FileRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin batch: %v", ErrWrite, err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO search_index (path, name, extension, file_size, is_dir, modified_time, last_indexed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			name=excluded.name, extension=excluded.extension, file_size=excluded.file_size,
			is_dir=excluded.is_dir, modified_time=excluded.modified_time, last_indexed=excluded.last_indexed`,
	)
	if err != nil {
		return fmt.Errorf("%w: prepare batch: %v", ErrWrite, err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Path, r.Name, r.Extension, r.FileSize, boolToInt(r.IsDir), r.ModifiedTime, r.LastIndexed); err != nil {
			return fmt.Errorf("%w: upsert %s: %v", ErrWrite, r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit batch: %v", ErrWrite, err)
	}
	return nil
}

// Delete removes the row for an exact path match.
func (s *Store) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM search_index WHERE path = ?`, path); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrWrite, path, err)
	}
	return nil
}

// Count returns the total number of rows.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM search_index`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrQuery, err)
	}
	return n, nil
}

// DatabaseSize returns page_count * page_size bytes.
func (s *Store) DatabaseSize() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pageCount, pageSize int64
	if err := s.db.QueryRow(`PRAGMA page_count`).Scan(&pageCount); err != nil {
		return 0, fmt.Errorf("%w: page_count: %v", ErrQuery, err)
	}
	if err := s.db.QueryRow(`PRAGMA page_size`).Scan(&pageSize); err != nil {
		return 0, fmt.Errorf("%w: page_size: %v", ErrQuery, err)
	}
	return pageCount * pageSize, nil
}

// LastIndexedTime returns MAX(last_indexed), or nil if the table is empty.
func (s *Store) LastIndexedTime() (*string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t sql.NullString
	if err := s.db.QueryRow(`SELECT MAX(last_indexed) FROM search_index`).Scan(&t); err != nil {
		return nil, fmt.Errorf("%w: last_indexed: %v", ErrQuery, err)
	}
	if !t.Valid {
		return nil, nil
	}
	return &t.String, nil
}

// Row is one result row returned by Search.
type Row struct {
	Path         string
	Name         string
	Extension    *string
	FileSize     *int64
	IsDir        bool
	ModifiedTime string
}

// Search performs a case-sensitive substring match of query against name,
// applying extension/size filters, ordering directories first then name
// ascending, and hard-limiting the row count (SPEC_FULL.md §4.1).
func (s *Store) Search(query string, extensions []string, minSize, maxSize *int64, limit uint) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(`SELECT path, name, extension, file_size, is_dir, modified_time FROM search_index WHERE name LIKE ? ESCAPE '\'`)
	args := []any{"%" + escapeLike(query) + "%"}

	if len(extensions) > 0 {
		placeholders := make([]string, len(extensions))
		for i, ext := range extensions {
			placeholders[i] = "?"
			args = append(args, ext)
		}
		sb.WriteString(" AND extension IN (" + strings.Join(placeholders, ", ") + ")")
	}
	if minSize != nil {
		sb.WriteString(" AND file_size >= ?")
		args = append(args, *minSize)
	}
	if maxSize != nil {
		sb.WriteString(" AND file_size <= ?")
		args = append(args, *maxSize)
	}
	sb.WriteString(" ORDER BY is_dir DESC, name ASC LIMIT ?")
	args = append(args, int64(limit))

	rows, err := s.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrQuery, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var ext sql.NullString
		var size sql.NullInt64
		var isDir int
		if err := rows.Scan(&r.Path, &r.Name, &ext, &size, &isDir, &r.ModifiedTime); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrQuery, err)
		}
		if ext.Valid {
			r.Extension = &ext.String
		}
		if size.Valid {
			r.FileSize = &size.Int64
		}
		r.IsDir = isDir != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrQuery, err)
	}
	return out, nil
}

// DeleteStaleEntries removes rows whose last_indexed predates
// now - olderThanHours. Not invoked by the indexing controller itself
// (SPEC_FULL.md §9); it is a CLI-only maintenance primitive.
func (s *Store) DeleteStaleEntries(olderThanHours int64) (int64, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(olderThanHours) * time.Hour).Format(time.RFC3339)
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM search_index WHERE last_indexed < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: delete stale: %v", ErrWrite, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %v", ErrWrite, err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// escapeLike escapes SQLite LIKE metacharacters so the query is matched
// literally as a substring, not interpreted as a pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
