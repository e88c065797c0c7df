package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spellcaster/grimoire/internal/config"
	"github.com/spellcaster/grimoire/internal/facet"
	"github.com/spellcaster/grimoire/internal/reindex"
	"github.com/spellcaster/grimoire/internal/store"
)

type testEnv struct {
	server *Server
	store  *store.Store
	root   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	root := t.TempDir()
	cfg := config.NewConfig()
	cfg.Library.Root = root

	require.NoError(t, facet.NewCounter(st).Seed(context.Background()))
	return &testEnv{
		server: New(cfg, st, reindex.New(st, root)),
		store:  st,
		root:   root,
	}
}

func (e *testEnv) addFile(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(e.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth_ReportsCounts(t *testing.T) {
	env := newTestEnv(t)
	env.addFile(t, "a.txt", "some words")
	env.do(t, http.MethodPost, "/api/reindex", "")

	rec := env.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["documents"])
	assert.EqualValues(t, 1, body["indexed"])
	assert.Equal(t, false, body["syncing"])
}

func TestReindex_IndexesLibrary(t *testing.T) {
	env := newTestEnv(t)
	env.addFile(t, "mirror.txt", "A silver mirror wards off harm.")
	env.addFile(t, "herbs.md", "Chamomile calms the nerves.")

	rec := env.do(t, http.MethodPost, "/api/reindex", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sum reindex.Summary
	decode(t, rec, &sum)
	assert.Equal(t, 2, sum.Inserted)
	assert.Equal(t, 2, sum.Total)
}

func TestSearch_FindsDocuments(t *testing.T) {
	env := newTestEnv(t)
	env.addFile(t, "mirror.txt", "A silver mirror wards off harm.")
	env.do(t, http.MethodPost, "/api/reindex", "")

	rec := env.do(t, http.MethodGet, "/api/search?q=silver+mirror", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Query   string `json:"query"`
		Results []struct {
			Title   string `json:"title"`
			Path    string `json:"path"`
			Snippet string `json:"snippet"`
		} `json:"results"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "silver mirror", body.Query)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Mirror", body.Results[0].Title)
	assert.Contains(t, body.Results[0].Snippet, "<mark>")
}

func TestSearch_EmptyQueryReturnsNoResults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/search?q=", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []any `json:"results"`
	}
	decode(t, rec, &body)
	assert.Empty(t, body.Results)
}

func TestSearch_InvalidLimitRejected(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/search?q=x&limit=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFacets_ReturnsConfiguredFacets(t *testing.T) {
	env := newTestEnv(t)
	env.addFile(t, "mirror.txt", "A silver mirror wards off harm.")
	env.do(t, http.MethodPost, "/api/reindex", "")

	rec := env.do(t, http.MethodGet, "/api/facets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Facets []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
			Poem  string `json:"poem"`
			Song  string `json:"song"`
		} `json:"facets"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Facets, len(facet.Definitions))

	byName := map[string]int{}
	for _, f := range body.Facets {
		byName[f.Name] = f.Count
		assert.NotEmpty(t, f.Poem)
		assert.NotEmpty(t, f.Song)
	}
	assert.Equal(t, 1, byName["Protection"])
	assert.Equal(t, 0, byName["Potions"])
}

func TestDocuments_ListAndGet(t *testing.T) {
	env := newTestEnv(t)
	env.addFile(t, "charm.txt", "a protective charm")
	env.do(t, http.MethodPost, "/api/reindex", "")

	rec := env.do(t, http.MethodGet, "/api/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Documents []struct {
			ID      int64  `json:"id"`
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"documents"`
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Charm", list.Documents[0].Title)
	assert.Empty(t, list.Documents[0].Content, "listing must not include content")

	rec = env.do(t, http.MethodGet, "/api/documents/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	decode(t, rec, &doc)
	assert.Equal(t, "Charm", doc.Title)
	assert.Equal(t, "a protective charm", doc.Content)
}

func TestDocuments_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/documents/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocuments_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/documents/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexFile_IndexesSingleFile(t *testing.T) {
	env := newTestEnv(t)
	env.addFile(t, "solo.txt", "just this one")

	rec := env.do(t, http.MethodPost, "/api/index-file", `{"path":"solo.txt"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var status reindex.FileStatus
	decode(t, rec, &status)
	assert.Equal(t, "indexed", status.Status)
	assert.Equal(t, "full", status.Searchable)
}

func TestIndexFile_MissingBody(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/index-file", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
