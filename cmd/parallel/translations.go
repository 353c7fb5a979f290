package main

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/JuniperParallel/core/catalog"
	jperrors "github.com/FocuswithJustin/JuniperParallel/core/errors"
	"github.com/FocuswithJustin/JuniperParallel/core/textdb"
	"github.com/FocuswithJustin/JuniperParallel/core/xml"
	"github.com/FocuswithJustin/JuniperParallel/internal/archive"
	"github.com/FocuswithJustin/JuniperParallel/internal/fileutil"
	"github.com/FocuswithJustin/JuniperParallel/internal/logging"
	"github.com/FocuswithJustin/JuniperParallel/internal/validation"
)

// Metadata holds the catalog fields shared by add, install and import.
type Metadata struct {
	Name              string `help:"Translation title"`
	Translator        string `help:"Translator name in English"`
	TranslatorForeign string `name:"translator-foreign" help:"Translator name in the translation's language"`
	Language          string `help:"BCP-47 language code"`
	URL               string `name:"url" help:"Source URL"`
	Version           int    `help:"Publisher revision number"`
	Order             int    `help:"Display order (lower first)"`
}

// apply overlays the flags that were set onto t.
func (m Metadata) apply(t catalog.Translation) catalog.Translation {
	if m.Name != "" {
		t.Name = m.Name
	}
	if m.Translator != "" {
		t.Translator = m.Translator
	}
	if m.TranslatorForeign != "" {
		t.TranslatorForeign = m.TranslatorForeign
	}
	if m.Language != "" {
		t.LanguageCode = m.Language
	}
	if m.URL != "" {
		t.URL = m.URL
	}
	if m.Version != 0 {
		t.Version = m.Version
	}
	if m.Order != 0 {
		t.DisplayOrder = m.Order
	}
	return t
}

// TranslationsListCmd lists installed translations.
type TranslationsListCmd struct {
	JSON bool `name:"json" help:"Print the catalog as JSON"`
}

func (c *TranslationsListCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.store.List(context.Background())
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No translations installed.")
		return nil
	}
	for _, t := range list {
		lang := t.LanguageCode
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(out, "%-24s %-6s %s\n", t.Filename, lang, t.DisplayName())
	}
	return nil
}

// TranslationsAddCmd registers an already installed database.
type TranslationsAddCmd struct {
	ID string `arg:"" help:"Translation id (database filename)"`
	Metadata `embed:""`
}

func (c *TranslationsAddCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	path := a.cfg.TranslationPath(c.ID)
	if _, err := os.Stat(path); err != nil {
		return jperrors.NewNotFound("translation database", path)
	}
	t, err := register(context.Background(), a.store, c.ID, path, c.Metadata)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Registered %s (%s)\n", t.Filename, t.DisplayName())
	return nil
}

// TranslationsRemoveCmd removes a translation from the catalog and disk.
type TranslationsRemoveCmd struct {
	ID       string `arg:"" help:"Translation id"`
	KeepFile bool   `name:"keep-file" help:"Leave the database file in place"`
}

func (c *TranslationsRemoveCmd) Run() error {
	if err := validation.ValidateTranslationID(c.ID); err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Delete(context.Background(), c.ID); err != nil {
		return err
	}
	a.reader.Invalidate(c.ID)
	if !c.KeepFile {
		if err := os.Remove(a.cfg.TranslationPath(c.ID)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", c.ID, err)
		}
	}
	fmt.Fprintf(out, "Removed %s\n", c.ID)
	return nil
}

// TranslationsVerifyCmd checks installed files against recorded checksums.
type TranslationsVerifyCmd struct{}

func (c *TranslationsVerifyCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.store.List(context.Background())
	if err != nil {
		return err
	}
	var bad []string
	for _, t := range list {
		ok, err := catalog.Verify(t, a.cfg.TranslationPath(t.Filename))
		switch {
		case err != nil:
			fmt.Fprintf(out, "MISSING  %s\n", t.Filename)
			bad = append(bad, t.Filename)
		case !ok:
			fmt.Fprintf(out, "CHANGED  %s\n", t.Filename)
			bad = append(bad, t.Filename)
		default:
			fmt.Fprintf(out, "OK       %s\n", t.Filename)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%d translation(s) failed verification", len(bad))
	}
	return nil
}

// TranslationsPackCmd bundles translation databases into one archive.
type TranslationsPackCmd struct {
	Output       string   `arg:"" help:"Output archive (.tar.xz or .tar.gz)" type:"path"`
	Translations []string `arg:"" optional:"" help:"Translation ids; all installed when omitted"`
}

func (c *TranslationsPackCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ids := c.Translations
	if len(ids) == 0 {
		list, err := a.store.List(context.Background())
		if err != nil {
			return err
		}
		for _, t := range list {
			ids = append(ids, t.Filename)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no translations to pack")
	}

	files := make([]string, len(ids))
	for i, id := range ids {
		if err := validation.ValidateTranslationID(id); err != nil {
			return err
		}
		files[i] = a.cfg.TranslationPath(id)
	}
	if err := archive.CreateBundle(c.Output, files); err != nil {
		return err
	}
	fmt.Fprintf(out, "Packed %d translation(s) into %s\n", len(files), c.Output)
	return nil
}

// InstallCmd installs translation databases from a .db, .db.xz, .tar.xz
// or .tar.gz file.
type InstallCmd struct {
	Source string `arg:"" help:"Database or archive to install" type:"existingfile"`
	Force  bool   `help:"Overwrite databases that are already installed"`
	Metadata `embed:""`
}

func (c *InstallCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := installFiles(c.Source, a.cfg.TranslationsPath(), c.Force)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, id := range ids {
		t, err := register(ctx, a.store, id, a.cfg.TranslationPath(id), c.Metadata)
		if err != nil {
			return err
		}
		a.reader.Invalidate(id)
		fmt.Fprintf(out, "Installed %s (%s)\n", t.Filename, t.DisplayName())
	}
	return nil
}

// installFiles places the databases of src into dir and returns their ids.
func installFiles(src, dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create translations directory: %w", err)
	}

	format := archive.DetectFormat(src)
	switch format {
	case archive.FormatTarXZ, archive.FormatTarGZ:
		if !force {
			if err := checkBundleTargets(src, dir); err != nil {
				return nil, err
			}
		}
		paths, err := archive.ExtractDatabases(src, dir)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(paths))
		for i, p := range paths {
			ids[i] = filepath.Base(p)
		}
		return ids, nil
	case archive.FormatDB, archive.FormatDBXZ:
		id := strings.TrimSuffix(filepath.Base(src), ".xz")
		if err := validation.ValidateTranslationID(id); err != nil {
			return nil, err
		}
		dst := filepath.Join(dir, id)
		if !force {
			if _, err := os.Stat(dst); err == nil {
				return nil, fmt.Errorf("%s is already installed (use --force to replace)", id)
			}
		}
		if format == archive.FormatDBXZ {
			err := archive.DecompressXZ(src, dst)
			return []string{id}, err
		}
		return []string{id}, fileutil.CopyFile(src, dst)
	default:
		return nil, fmt.Errorf("unsupported install source: %s", src)
	}
}

// checkBundleTargets refuses a bundle that would overwrite installed files.
func checkBundleTargets(src, dir string) error {
	return archive.Walk(src, func(header *tar.Header, _ io.Reader) (bool, error) {
		id := filepath.Base(header.Name)
		if archive.DetectFormat(id) != archive.FormatDB {
			return false, nil
		}
		if _, err := os.Stat(filepath.Join(dir, id)); err == nil {
			return true, fmt.Errorf("%s is already installed (use --force to replace)", id)
		}
		return false, nil
	})
}

// register records the checksum of path and upserts the catalog entry,
// keeping existing metadata the flags do not override.
func register(ctx context.Context, store *catalog.Store, id, path string, meta Metadata) (catalog.Translation, error) {
	if err := validation.ValidateTranslationID(id); err != nil {
		return catalog.Translation{}, err
	}
	t, err := store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, jperrors.ErrNotFound) {
			return catalog.Translation{}, err
		}
		t = catalog.Translation{Filename: id}
	}
	t = meta.apply(t)

	sum, err := catalog.Checksum(path)
	if err != nil {
		return catalog.Translation{}, err
	}
	t.Checksum = sum
	logging.Debug("registering translation", "id", id, "checksum", sum)
	return store.Upsert(ctx, t)
}

// ImportZefaniaCmd converts one book of a Zefania XML file into a
// translation database.
type ImportZefaniaCmd struct {
	Path string `arg:"" help:"Zefania XML file" type:"existingfile"`
	ID   string `arg:"" help:"Translation id to create (e.g. sahih.db)"`
	Book int    `help:"BIBLEBOOK bnumber to read; the first book when 0"`
	Metadata `embed:""`
}

func (c *ImportZefaniaCmd) Run() error {
	if err := validation.ValidateTranslationID(c.ID); err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return &jperrors.ParseError{Format: "Zefania XML", Message: "malformed document", Err: err}
	}
	items, err := xml.ZefaniaVerses(doc, c.Book)
	if err != nil {
		return err
	}
	info := xml.ReadZefaniaInfo(doc)

	path := a.cfg.TranslationPath(c.ID)
	w, err := textdb.Create(path, a.cfg.TranslationTable)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := w.Insert(ctx, items); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	meta := c.Metadata
	if meta.Name == "" {
		meta.Name = info.Title
	}
	if meta.Translator == "" {
		meta.Translator = info.Creator
	}
	if meta.Language == "" {
		meta.Language = info.Language
	}
	t, err := register(ctx, a.store, c.ID, path, meta)
	if err != nil {
		return err
	}
	a.reader.Invalidate(c.ID)
	fmt.Fprintf(out, "Imported %d verses into %s (%s)\n", len(items), t.Filename, t.DisplayName())
	return nil
}
