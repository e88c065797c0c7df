package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	gerr "github.com/spellcaster/grimoire/internal/errors"
	"github.com/spellcaster/grimoire/internal/facet"
	"github.com/spellcaster/grimoire/internal/reindex"
	"github.com/spellcaster/grimoire/internal/search"
	"github.com/spellcaster/grimoire/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("cannot encode response", "error", err)
	}
}

// writeError maps error codes onto HTTP statuses. Conflicts become 409,
// not-found 404, validation 400, everything else 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, reindex.ErrSyncInProgress):
		status = http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case gerr.GetCategory(err) == gerr.CategoryValidation:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorBody{Error: err.Error(), Code: gerr.GetCode(err)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	docs, ftsRows, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	body := map[string]any{
		"status":    "ok",
		"documents": docs,
		"indexed":   ftsRows,
		"syncing":   s.reindexer.Busy(),
	}
	if newest, err := s.store.Newest(r.Context()); err == nil && newest != nil {
		body["newest"] = map[string]any{
			"id": newest.ID, "title": newest.Title, "path": newest.Path,
		}
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := s.cfg.Search.MaxResults
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, gerr.New(gerr.ErrCodeInvalidQuery, "limit must be a positive integer", nil))
			return
		}
		if n < limit {
			limit = n
		}
	}

	res, err := s.searcher.Run(r.Context(), q, search.Options{
		Limit:        limit,
		LikeFallback: s.cfg.Search.LikeFallback,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	counts, err := s.counter.Counts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	meta, err := s.store.FacetMetaAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	type facetBody struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
		Poem  string `json:"poem,omitempty"`
		Song  string `json:"song,omitempty"`
	}
	out := make([]facetBody, 0, len(facet.Definitions))
	for _, def := range facet.Definitions {
		fb := facetBody{Name: def.Name, Count: counts[def.Name]}
		if m, ok := meta[def.Name]; ok {
			fb.Poem = m.Poem
			fb.Song = m.Song
		}
		out = append(out, fb)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"facets": out})
}

type documentBody struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toDocumentBody(doc *store.Document, withContent bool) documentBody {
	b := documentBody{
		ID:        doc.ID,
		Title:     doc.Title,
		Path:      doc.Path,
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: doc.UpdatedAt.Format(time.RFC3339),
	}
	if withContent {
		b.Content = doc.Content
	}
	return b
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]documentBody, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentBody(doc, false))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"documents": out, "total": len(out)})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, gerr.New(gerr.ErrCodeInvalidPath, "document id must be an integer", nil))
		return
	}
	doc, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toDocumentBody(doc, true))
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	sum, err := s.reindexer.Sync(r.Context(), reindex.Options{
		UseCleaner:  s.cfg.Index.UseCleaner,
		MaxFileSize: s.cfg.Library.MaxFileSizeBytes(),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleIndexFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Path == "" {
		s.writeError(w, gerr.New(gerr.ErrCodeInvalidPath, "body must contain a path", err))
		return
	}
	status, err := s.reindexer.IndexFile(r.Context(), body.Path, s.cfg.Index.UseCleaner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}
