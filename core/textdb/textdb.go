// Package textdb reads and writes verse text databases.
//
// Canonical and translation databases share one schema, differing only in
// table name (arabic_text for the canonical text, verses for translations):
//
//	CREATE TABLE <table> (sura INTEGER NOT NULL, ayah INTEGER NOT NULL, text TEXT)
package textdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/FocuswithJustin/JuniperParallel/core/errors"
	"github.com/FocuswithJustin/JuniperParallel/core/ir"
	"github.com/FocuswithJustin/JuniperParallel/core/sqlite"
)

// Default table names.
const (
	CanonicalTable   = "arabic_text"
	TranslationTable = "verses"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkTable(table string) error {
	if !tableNamePattern.MatchString(table) {
		return errors.NewValidation("table", fmt.Sprintf("%q is not a valid table name", table))
	}
	return nil
}

// Source reads verse text from one database.
type Source struct {
	db    *sql.DB
	path  string
	table string
}

// Open opens the database at path read-only.
func Open(path, table string) (*Source, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("text database", path)
		}
		return nil, errors.NewIO("stat", path, err)
	}

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	return &Source{db: db, path: path, table: table}, nil
}

// Path returns the database path.
func (s *Source) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Source) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Verses returns the text stored for keys inside r, ordered by key.
// Verses with no row are simply absent from the result.
func (s *Source) Verses(ctx context.Context, r ir.VerseRange) ([]ir.TextItem, error) {
	query := fmt.Sprintf(`SELECT sura, ayah, text FROM %s
		WHERE (sura > ? OR (sura = ? AND ayah >= ?))
		  AND (sura < ? OR (sura = ? AND ayah <= ?))
		ORDER BY sura, ayah`, s.table)

	rows, err := s.db.QueryContext(ctx, query,
		r.StartChapter, r.StartChapter, r.StartVerse,
		r.EndChapter, r.EndChapter, r.EndVerse)
	if err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	defer rows.Close()

	var items []ir.TextItem
	for rows.Next() {
		var item ir.TextItem
		var text sql.NullString
		if err := rows.Scan(&item.Key.Chapter, &item.Key.Verse, &text); err != nil {
			return nil, errors.NewIO("scan", s.path, err)
		}
		item.Text = text.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("read rows", s.path, err)
	}
	return items, nil
}

// Writer builds a verse text database.
type Writer struct {
	db    *sql.DB
	path  string
	table string
}

// Create opens (creating if needed) the database at path and ensures
// the verse table exists.
func Create(path, table string) (*Writer, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewIO("create directory for", path, err)
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		sura INTEGER NOT NULL,
		ayah INTEGER NOT NULL,
		text TEXT,
		PRIMARY KEY (sura, ayah)
	)`, table)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewIO("create table in", path, err)
	}

	return &Writer{db: db, path: path, table: table}, nil
}

// Insert stores items in one transaction, replacing existing rows for the
// same key.
func (w *Writer) Insert(ctx context.Context, items []ir.TextItem) (err error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewIO("begin transaction on", w.path, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT OR REPLACE INTO %s (sura, ayah, text) VALUES (?, ?, ?)`, w.table))
	if err != nil {
		return errors.NewIO("prepare insert on", w.path, err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err = stmt.ExecContext(ctx, item.Key.Chapter, item.Key.Verse, item.Text); err != nil {
			return errors.NewIO("insert "+item.Key.String()+" into", w.path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.NewIO("commit", w.path, err)
	}
	return nil
}

// Close closes the database connection.
func (w *Writer) Close() error {
	if w.db != nil {
		err := w.db.Close()
		w.db = nil
		return err
	}
	return nil
}
