package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"artwork-helper/internal/logging"
	"artwork-helper/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned by GetEntry when no row matches the URL.
var ErrNotFound = errors.New("artwork entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS artwork (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT,
	original_url TEXT UNIQUE NOT NULL,
	processed_path TEXT,
	content_hash TEXT,
	color TEXT,
	contrast TEXT,
	luminosity INTEGER
);

CREATE INDEX IF NOT EXISTS idx_artwork_original_url ON artwork(original_url);
`

// Store is the artwork lookup table.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New opens the database at dbPath, creating the schema if needed.
// The parent directory must already exist.
func New(ctx context.Context, dbPath string) (*Store, error) {
	logging.Debug("Lookup database path: %s", dbPath)

	if err := diagnoseDatabasePermissions(dbPath); err != nil {
		logging.Warn("Database permission diagnostics: %v", err)
	}

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connections are released after every call.
	db.SetMaxIdleConns(0)
	db.SetMaxOpenConns(4)

	s := &Store{db: db, dbPath: dbPath}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// withConn runs fn on a dedicated connection that is released afterwards.
func (s *Store) withConn(ctx context.Context, operation string, fn func(ctx context.Context, conn *sql.Conn) error) (err error) {
	start := time.Now()
	defer func() { recordQuery(operation, start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logging.Warn("failed to release database connection: %v", closeErr)
		}
	}()

	return fn(ctx, conn)
}

func (s *Store) initialize(ctx context.Context) error {
	return s.withConn(ctx, "initialize_schema", func(ctx context.Context, conn *sql.Conn) error {
		if err := migrateLegacyTable(ctx, conn); err != nil {
			return err
		}
		_, err := conn.ExecContext(ctx, schema)
		return err
	})
}

// migrateLegacyTable drops an artwork table created before content hashes
// were stored. Its rows cannot be validated, and the table only caches
// derived data.
func migrateLegacyTable(ctx context.Context, conn *sql.Conn) error {
	var tableExists bool
	err := conn.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0 FROM sqlite_master WHERE type='table' AND name='artwork'
	`).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("failed to check for artwork table: %w", err)
	}
	if !tableExists {
		return nil
	}

	var hashExists bool
	err = conn.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info('artwork')
		WHERE name='content_hash'
	`).Scan(&hashExists)
	if err != nil {
		return fmt.Errorf("failed to check for content_hash column: %w", err)
	}
	if hashExists {
		return nil
	}

	logging.Info("Migrating database: dropping artwork table without content_hash")
	if _, err := conn.ExecContext(ctx, `DROP TABLE artwork`); err != nil {
		return fmt.Errorf("failed to drop legacy artwork table: %w", err)
	}
	return nil
}

// AddEntry inserts e, replacing any row with the same original URL.
func (s *Store) AddEntry(ctx context.Context, e *Entry) error {
	if e == nil || e.OriginalURL == "" {
		return errors.New("entry requires an original URL")
	}

	return s.withConn(ctx, "add_entry", func(ctx context.Context, conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, `
			INSERT OR REPLACE INTO artwork
				(category, original_url, processed_path, content_hash, color, contrast, luminosity)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, e.Category, e.OriginalURL, e.ProcessedPath, e.ContentHash, e.Color, e.Contrast, e.Luminosity)
		if err != nil {
			return err
		}
		if id, err := result.LastInsertId(); err == nil {
			e.ID = id
		}
		return nil
	})
}

// GetEntry returns the row for url, matched exactly.
func (s *Store) GetEntry(ctx context.Context, url string) (*Entry, error) {
	var e Entry
	err := s.withConn(ctx, "get_entry", func(ctx context.Context, conn *sql.Conn) error {
		var category, processed, hash, color, contrast sql.NullString
		var luminosity sql.NullInt64

		err := conn.QueryRowContext(ctx, `
			SELECT id, category, original_url, processed_path, content_hash, color, contrast, luminosity
			FROM artwork WHERE original_url = ?
		`, url).Scan(&e.ID, &category, &e.OriginalURL, &processed, &hash, &color, &contrast, &luminosity)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		e.Category = category.String
		e.ProcessedPath = processed.String
		e.ContentHash = hash.String
		e.Color = color.String
		e.Contrast = contrast.String
		e.Luminosity = int(luminosity.Int64)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Count returns the number of rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.withConn(ctx, "count", func(ctx context.Context, conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM artwork`).Scan(&n)
	})
	return n, err
}

// FileSizes reports the size of the database, WAL and SHM files. Missing
// files are omitted.
func (s *Store) FileSizes() map[string]int64 {
	sizes := make(map[string]int64, 3)
	for file, path := range databaseFiles(s.dbPath) {
		if info, err := os.Stat(path); err == nil {
			sizes[file] = info.Size()
		}
	}
	return sizes
}

// Remove deletes the database file at dbPath together with its WAL and SHM
// files. Missing files are not an error.
func Remove(dbPath string) error {
	var errs []error
	for _, path := range databaseFiles(dbPath) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func databaseFiles(dbPath string) map[string]string {
	return map[string]string{
		"main": dbPath,
		"wal":  dbPath + "-wal",
		"shm":  dbPath + "-shm",
	}
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, ErrNotFound) {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// diagnoseDatabasePermissions checks that the database directory and any
// existing database files are writable.
func diagnoseDatabasePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}
	logging.Debug("Database directory: %s (mode: %v)", dir, dirInfo.Mode())

	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("database directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	for file, path := range databaseFiles(dbPath) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("Database %s file %s is read-only (mode %v)", file, path, info.Mode())
		}
	}
	return nil
}
