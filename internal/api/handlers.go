package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperParallel/core/cache"
	"github.com/FocuswithJustin/JuniperParallel/core/catalog"
	jperrors "github.com/FocuswithJustin/JuniperParallel/core/errors"
	"github.com/FocuswithJustin/JuniperParallel/core/ir"
	"github.com/FocuswithJustin/JuniperParallel/core/sqlite"
	"github.com/FocuswithJustin/JuniperParallel/internal/reader"
)

var errRequestCanceled = errors.New("request canceled")

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	Uptime  string       `json:"uptime"`
	SQLite  sqlite.Info  `json:"sqlite"`
	Cache   *cache.Stats `json:"cache,omitempty"`
}

// TranslationInfo is a catalog entry with its resolved display name.
type TranslationInfo struct {
	catalog.Translation
	DisplayName string `json:"display_name"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]any{
		"name":    "Juniper Parallel API",
		"version": s.opts.Version,
		"endpoints": []string{
			"GET /health",
			"GET /translations",
			"GET /verses?range=1:1-1:7&translations=a.db,b.db&canonical=true",
			"GET /translation?id=a.db&range=1:1-1:7",
			"GET /ws",
		},
	}, 0)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := HealthInfo{
		Status:  "ok",
		Version: s.opts.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		SQLite:  sqlite.GetInfo(),
	}
	if s.opts.Reader != nil {
		if c := s.opts.Reader.Cache(); c != nil {
			stats := c.Stats()
			info.Cache = &stats
		}
	}
	respond(w, r, http.StatusOK, info, 0)
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	if s.opts.Catalog == nil {
		respond(w, r, http.StatusOK, []TranslationInfo{}, 0)
		return
	}
	list, err := s.opts.Catalog.List(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out := make([]TranslationInfo, len(list))
	for i, t := range list {
		out[i] = TranslationInfo{Translation: t, DisplayName: t.DisplayName()}
	}
	respond(w, r, http.StatusOK, out, len(out))
}

func (s *Server) handleVerses(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	res, err := s.opts.Reader.Verses(r.Context(), req)
	if err != nil {
		respondErr(w, r, canceled(r.Context(), err))
		return
	}
	respond(w, r, http.StatusOK, res, len(res.Records))
}

func (s *Server) handleTranslation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := strings.TrimSpace(q.Get("id"))
	if id == "" {
		respondErr(w, r, jperrors.NewValidation("id", "required"))
		return
	}
	rng, err := ir.ParseRange(s.opts.Reader.Versification(), q.Get("range"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	items, err := s.opts.Reader.Translation(r.Context(), id, rng)
	if err != nil {
		respondErr(w, r, canceled(r.Context(), err))
		return
	}
	respond(w, r, http.StatusOK, map[string]any{
		"id":    id,
		"name":  s.opts.Reader.Names(r.Context(), []string{id})[0],
		"range": rng,
		"items": items,
	}, len(items))
}

// parseRequest reads range, translations and canonical query parameters.
// canonical defaults to true.
func (s *Server) parseRequest(r *http.Request) (reader.Request, error) {
	q := r.URL.Query()
	rng, err := ir.ParseRange(s.opts.Reader.Versification(), q.Get("range"))
	if err != nil {
		return reader.Request{}, err
	}
	canonical := true
	if raw := q.Get("canonical"); raw != "" {
		canonical, err = strconv.ParseBool(raw)
		if err != nil {
			return reader.Request{}, jperrors.NewValidation("canonical", "must be a boolean")
		}
	}
	return reader.Request{
		Range:        rng,
		Canonical:    canonical,
		Translations: splitIDs(q.Get("translations")),
	}, nil
}

// splitIDs splits a comma-separated list, dropping blanks.
func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func canceled(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errRequestCanceled
	}
	return err
}
