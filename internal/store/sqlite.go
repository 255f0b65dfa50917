package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS configuration (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS transcripts (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			updated_at DATETIME,
			turns TEXT
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Configuration Implementation

func (s *SQLiteStore) SetConfig(key, value string) error {
	query := `INSERT INTO configuration (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err := s.db.Exec(query, key, value)
	return err
}

func (s *SQLiteStore) GetConfig(key string) (string, error) {
	query := `SELECT value FROM configuration WHERE key = ?`
	row := s.db.QueryRow(query, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Transcript Implementation

func (s *SQLiteStore) SaveTranscript(t *Transcript) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	query := `INSERT INTO transcripts (id, created_at, updated_at, turns) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, turns = excluded.turns`
	_, err := s.db.Exec(query, t.ID, t.CreatedAt, t.UpdatedAt, t.Turns)
	return err
}

func (s *SQLiteStore) GetTranscript(id string) (*Transcript, error) {
	query := `SELECT id, created_at, updated_at, turns FROM transcripts WHERE id = ?`
	row := s.db.QueryRow(query, id)

	var t Transcript
	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Turns); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("transcript not found: %s", id)
		}
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) LatestTranscript() (*Transcript, error) {
	query := `SELECT id, created_at, updated_at, turns FROM transcripts ORDER BY updated_at DESC LIMIT 1`
	row := s.db.QueryRow(query)

	var t Transcript
	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Turns); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
