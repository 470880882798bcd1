package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"e2estore/internal/domain"
)

// SQLiteFilename is the database file used by the sqlite backend.
const SQLiteFilename = "interactions.db"

const sqliteSchema = `CREATE TABLE IF NOT EXISTS interactions (
	id   BLOB PRIMARY KEY,
	body BLOB NOT NULL
)`

// SQLiteStore keeps one row per Interaction in a SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures its schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LoadInteraction reads the stored bytes of id.
func (s *SQLiteStore) LoadInteraction(id domain.InteractionID) ([]byte, bool, error) {
	var body []byte
	err := s.sqlDB.QueryRow(`SELECT body FROM interactions WHERE id = ?`, id.Slice()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load interaction %s: %w", id, err)
	}
	return body, true, nil
}

// ReplaceInteraction upserts the bytes of id inside one transaction.
func (s *SQLiteStore) ReplaceInteraction(id domain.InteractionID, b []byte) error {
	tx, err := s.sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO interactions (id, body) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body`,
		id.Slice(), b,
	); err != nil {
		return fmt.Errorf("replace interaction %s: %w", id, err)
	}
	return tx.Commit()
}

// ListInteractions returns the ids of every stored Interaction in ascending
// order.
func (s *SQLiteStore) ListInteractions() ([]domain.InteractionID, error) {
	rows, err := s.sqlDB.Query(`SELECT id FROM interactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var ids []domain.InteractionID
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var id domain.InteractionID
		if len(raw) != len(id) {
			return nil, fmt.Errorf("stored interaction id has %d bytes", len(raw))
		}
		copy(id[:], raw)
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Compile-time assertion that SQLiteStore implements domain.InteractionStore.
var _ domain.InteractionStore = (*SQLiteStore)(nil)
