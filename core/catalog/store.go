package catalog

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/JuniperParallel/core/errors"
	"github.com/FocuswithJustin/JuniperParallel/core/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS translations (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	filename           TEXT NOT NULL UNIQUE,
	name               TEXT NOT NULL DEFAULT '',
	translator         TEXT NOT NULL DEFAULT '',
	translator_foreign TEXT NOT NULL DEFAULT '',
	url                TEXT NOT NULL DEFAULT '',
	language_code      TEXT NOT NULL DEFAULT '',
	version            INTEGER NOT NULL DEFAULT 0,
	display_order      INTEGER NOT NULL DEFAULT 0,
	checksum           TEXT NOT NULL DEFAULT ''
)`

const columns = `id, filename, name, translator, translator_foreign, url,
	language_code, version, display_order, checksum`

// Store persists translation metadata in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating if needed) the catalog database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewIO("create directory for", path, err)
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open catalog", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewIO("initialize catalog", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Upsert inserts t, or updates the row with the same filename, and returns
// the stored record with its ID filled in.
func (s *Store) Upsert(ctx context.Context, t Translation) (Translation, error) {
	if t.Filename == "" {
		return Translation{}, errors.NewValidation("filename", "must not be empty")
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO translations
		(filename, name, translator, translator_foreign, url, language_code, version, display_order, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			name = excluded.name,
			translator = excluded.translator,
			translator_foreign = excluded.translator_foreign,
			url = excluded.url,
			language_code = excluded.language_code,
			version = excluded.version,
			display_order = excluded.display_order,
			checksum = excluded.checksum`,
		t.Filename, t.Name, t.Translator, t.TranslatorForeign, t.URL,
		t.LanguageCode, t.Version, t.DisplayOrder, t.Checksum)
	if err != nil {
		return Translation{}, errors.NewIO("upsert translation "+t.Filename+" in", s.path, err)
	}
	return s.Get(ctx, t.Filename)
}

// Get returns the translation stored under filename.
func (s *Store) Get(ctx context.Context, filename string) (Translation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM translations WHERE filename = ?`, filename)

	t, err := scan(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Translation{}, errors.NewNotFound("translation", filename)
	}
	if err != nil {
		return Translation{}, errors.NewIO("read translation "+filename+" from", s.path, err)
	}
	return t, nil
}

// List returns every translation ordered by display order, then filename.
func (s *Store) List(ctx context.Context) ([]Translation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM translations ORDER BY display_order, filename`)
	if err != nil {
		return nil, errors.NewIO("list translations in", s.path, err)
	}
	defer rows.Close()

	var list []Translation
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, errors.NewIO("scan translation in", s.path, err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("list translations in", s.path, err)
	}
	return list, nil
}

// Delete removes the translation stored under filename.
func (s *Store) Delete(ctx context.Context, filename string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translations WHERE filename = ?`, filename)
	if err != nil {
		return errors.NewIO("delete translation "+filename+" from", s.path, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFound("translation", filename)
	}
	return nil
}

// Catalog returns every stored translation keyed by filename.
func (s *Store) Catalog(ctx context.Context) (Catalog, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	cat := make(Catalog, len(list))
	for _, t := range list {
		cat[t.Filename] = t
	}
	return cat, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Translation, error) {
	var t Translation
	err := row.Scan(&t.ID, &t.Filename, &t.Name, &t.Translator, &t.TranslatorForeign,
		&t.URL, &t.LanguageCode, &t.Version, &t.DisplayOrder, &t.Checksum)
	return t, err
}
