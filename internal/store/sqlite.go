// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"database/sql"
	"time"
)

// SQLite is a Store backed by a single-table SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if necessary) a SQLite-backed Store at
// path. path may be ":memory:" for an ephemeral database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			handle      TEXT NOT NULL,
			expression  TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Record(entry HistoryEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO history (handle, expression, outcome, finished_at) VALUES (?, ?, ?, ?)`,
		entry.Handle, entry.Expression, entry.Outcome, entry.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLite) Recent(limit int) ([]HistoryEntry, error) {
	query := `SELECT handle, expression, outcome, finished_at FROM history ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var ts string
		if err := rows.Scan(&e.Handle, &e.Expression, &e.Outcome, &ts); err != nil {
			return nil, err
		}
		e.FinishedAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
