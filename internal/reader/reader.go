// Package reader loads verse text from the canonical and translation
// databases and assembles the parallel view of a verse range.
package reader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/FocuswithJustin/JuniperParallel/core/cache"
	"github.com/FocuswithJustin/JuniperParallel/core/catalog"
	jperrors "github.com/FocuswithJustin/JuniperParallel/core/errors"
	"github.com/FocuswithJustin/JuniperParallel/core/ir"
	"github.com/FocuswithJustin/JuniperParallel/core/parallel"
	"github.com/FocuswithJustin/JuniperParallel/core/textdb"
	"github.com/FocuswithJustin/JuniperParallel/internal/config"
	"github.com/FocuswithJustin/JuniperParallel/internal/logging"
	"github.com/FocuswithJustin/JuniperParallel/internal/validation"
)

// canonicalSource is the cache key for the canonical text.
const canonicalSource = "canonical"

// Cataloger supplies translation metadata for name resolution.
type Cataloger interface {
	Catalog(ctx context.Context) (catalog.Catalog, error)
}

// Options configures a Service.
type Options struct {
	CanonicalPath    string
	CanonicalTable   string
	TranslationsDir  string
	TranslationTable string
	Workers          int

	// Versification defaults to ir.Hafs.
	Versification ir.Versification
	// Catalog may be nil; names then fall back to translation ids.
	Catalog Cataloger
	// Cache may be nil to disable caching.
	Cache *cache.TextCache
}

// OptionsFromConfig maps configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		CanonicalPath:    cfg.CanonicalPath(),
		CanonicalTable:   cfg.CanonicalTable,
		TranslationsDir:  cfg.TranslationsPath(),
		TranslationTable: cfg.TranslationTable,
		Workers:          cfg.Workers,
	}
	if cfg.Cache.Enabled {
		opts.Cache = cache.New(cache.Config{
			TTL:             cfg.Cache.TTL,
			CleanupInterval: cfg.Cache.CleanupInterval,
		})
	}
	return opts
}

// Service answers verse requests. It is safe for concurrent use.
type Service struct {
	opts Options
}

// New creates a Service.
func New(opts Options) *Service {
	if opts.Versification == nil {
		opts.Versification = ir.Hafs
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Service{opts: opts}
}

// Versification returns the verse table the service validates against.
func (s *Service) Versification() ir.Versification {
	return s.opts.Versification
}

// Cache returns the text cache, or nil when caching is off.
func (s *Service) Cache() *cache.TextCache {
	return s.opts.Cache
}

// Request selects what to load.
type Request struct {
	Range        ir.VerseRange
	Canonical    bool
	Translations []string
}

// Result is the parallel view of a range.
type Result struct {
	Range ir.VerseRange `json:"range"`
	// Names has one display name per requested translation, in order.
	Names   []string          `json:"names"`
	Records []parallel.Record `json:"records"`
	// Failed lists translations that could not be read. Their slots in
	// every record hold "".
	Failed []string `json:"failed,omitempty"`
}

type loaded struct {
	items []ir.TextItem
	err   error
}

// Verses loads the canonical text (when requested) and every translation,
// then merges them. Translations are read concurrently. A translation that
// fails to load is logged and contributes empty text; a canonical failure
// is returned as an error.
func (s *Service) Verses(ctx context.Context, req Request) (*Result, error) {
	if err := ir.ValidateRange(s.opts.Versification, req.Range); err != nil {
		return nil, err
	}
	if err := validation.ValidateTranslationIDs(req.Translations); err != nil {
		return nil, jperrors.NewValidation("translations", err.Error())
	}
	r := s.withCount(req.Range)

	var canonical []ir.TextItem
	if req.Canonical {
		items, err := s.load(ctx, canonicalSource, s.opts.CanonicalPath, s.opts.CanonicalTable, r)
		if err != nil {
			return nil, jperrors.Wrap(err, "load canonical text")
		}
		canonical = items
	}

	results := Run(s.opts.Workers, req.Translations, func(id string) loaded {
		items, err := s.load(ctx, id, s.translationPath(id), s.opts.TranslationTable, r)
		return loaded{items: items, err: err}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	translations := make([][]ir.TextItem, len(results))
	var failed []string
	for i, res := range results {
		if res.err != nil {
			logging.SourceError(ctx, req.Translations[i], "load", res.err)
			failed = append(failed, req.Translations[i])
			translations[i] = []ir.TextItem{}
			continue
		}
		translations[i] = res.items
	}

	return &Result{
		Range:   r,
		Names:   parallel.ResolveNames(req.Translations, s.catalog(ctx)),
		Records: parallel.Combine(r, canonical, translations),
		Failed:  failed,
	}, nil
}

// Translation returns one translation over r with every verse present;
// verses missing from the database carry empty text.
func (s *Service) Translation(ctx context.Context, id string, r ir.VerseRange) ([]ir.TextItem, error) {
	if err := validation.ValidateTranslationID(id); err != nil {
		return nil, jperrors.NewValidation("translation", err.Error())
	}
	if err := ir.ValidateRange(s.opts.Versification, r); err != nil {
		return nil, err
	}
	items, err := s.load(ctx, id, s.translationPath(id), s.opts.TranslationTable, r)
	if err != nil {
		return nil, err
	}
	return parallel.EnsureDenseText(s.opts.Versification, r, items)
}

// Canonical returns the canonical text over r, densified like Translation.
func (s *Service) Canonical(ctx context.Context, r ir.VerseRange) ([]ir.TextItem, error) {
	if err := ir.ValidateRange(s.opts.Versification, r); err != nil {
		return nil, err
	}
	items, err := s.load(ctx, canonicalSource, s.opts.CanonicalPath, s.opts.CanonicalTable, r)
	if err != nil {
		return nil, err
	}
	return parallel.EnsureDenseText(s.opts.Versification, r, items)
}

// Names resolves display names for ids against the catalog.
func (s *Service) Names(ctx context.Context, ids []string) []string {
	return parallel.ResolveNames(ids, s.catalog(ctx))
}

// Invalidate drops cached text for a translation id, e.g. after reinstall.
func (s *Service) Invalidate(id string) {
	if s.opts.Cache != nil {
		s.opts.Cache.Invalidate(id)
	}
}

func (s *Service) translationPath(id string) string {
	return filepath.Join(s.opts.TranslationsDir, id)
}

func (s *Service) withCount(r ir.VerseRange) ir.VerseRange {
	if n, err := ir.CountVerses(s.opts.Versification, r); err == nil {
		r.VersesInRange = n
	}
	return r
}

func (s *Service) catalog(ctx context.Context) catalog.Catalog {
	if s.opts.Catalog == nil {
		return nil
	}
	cat, err := s.opts.Catalog.Catalog(ctx)
	if err != nil {
		logging.WarnContext(ctx, "catalog unavailable, using translation ids as names", "error", err)
		return nil
	}
	return cat
}

func (s *Service) load(ctx context.Context, source, path, table string, r ir.VerseRange) ([]ir.TextItem, error) {
	if s.opts.Cache != nil {
		if items, ok := s.opts.Cache.Get(source, r); ok {
			return items, nil
		}
	}

	src, err := textdb.Open(path, table)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	items, err := src.Verses(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	logging.SourceLoad(ctx, source, r.String(), len(items))

	if s.opts.Cache != nil {
		s.opts.Cache.Put(source, r, items)
	}
	return items, nil
}
