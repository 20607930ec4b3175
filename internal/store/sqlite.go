package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS tasks (
	name      TEXT PRIMARY KEY,
	completed TEXT NOT NULL
)`

// SQLite is a Store backed by a single-table SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("path is required for sqlite database")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite database: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Put implements Store.
func (s *SQLite) Put(ctx context.Context, name string, completed bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (name, completed) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET completed = excluded.completed`,
		name, EncodeBool(completed))
	if err != nil {
		return fmt.Errorf("put %q: %w", name, mapSQLErr(err))
	}
	return nil
}

// GetAll implements Store.
func (s *SQLite) GetAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, completed FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("get all: %w", mapSQLErr(err))
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var name, completed string
		if err := rows.Scan(&name, &completed); err != nil {
			return nil, fmt.Errorf("get all: scan: %w", err)
		}
		entries = append(entries, Entry{Name: name, Completed: DecodeBool(completed)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get all: %w", mapSQLErr(err))
	}
	return entries, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func mapSQLErr(err error) error {
	if errors.Is(err, sql.ErrConnDone) || err.Error() == "sql: database is closed" {
		return ErrClosed
	}
	return err
}
