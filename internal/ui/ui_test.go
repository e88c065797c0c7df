package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spellcaster/grimoire/internal/search"
	"github.com/spellcaster/grimoire/internal/store"
)

func TestNewPrinter_BufferIsNotTTY(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.False(t, IsTTY(buf))
}

func TestSearchResult_PlainOutput(t *testing.T) {
	// Given: a printer writing to a pipe-like buffer
	buf := &bytes.Buffer{}
	p := NewPrinter(buf)

	// When: printing a result with snippet markup
	p.SearchResult(&search.Result{
		Query: "ward",
		Rows: []store.SearchRow{{
			ID:      1,
			Title:   "Mirror",
			Path:    "charms/mirror.txt",
			Snippet: "a silver mirror <mark>wards</mark> off harm",
		}},
	})

	// Then: markup is gone, no ANSI escapes leak into the pipe
	out := buf.String()
	assert.Contains(t, out, "Mirror")
	assert.Contains(t, out, "charms/mirror.txt")
	assert.Contains(t, out, "wards")
	assert.NotContains(t, out, "<mark>")
	assert.NotContains(t, out, "\x1b[")
}

func TestSearchResult_NoResults(t *testing.T) {
	buf := &bytes.Buffer{}
	NewPrinter(buf).SearchResult(&search.Result{Query: "nothing"})
	assert.Contains(t, buf.String(), `No results for "nothing"`)
}

func TestSearchResult_FallbackMarkedInHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	NewPrinter(buf).SearchResult(&search.Result{
		Query:    "rose",
		Fallback: true,
		Rows:     []store.SearchRow{{Title: "Flowers", Path: "f.txt", Snippet: "prim<mark>rose</mark>"}},
	})
	assert.Contains(t, buf.String(), "substring match")
}

func TestRenderSnippet_UnescapesEntities(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{})
	got := p.renderSnippet("&lt;tag&gt; and <mark>hit</mark> &amp; more")
	assert.Equal(t, "<tag> and hit & more", got)
}

func TestFacets_OneLinePerFacet(t *testing.T) {
	buf := &bytes.Buffer{}
	NewPrinter(buf).Facets(map[string]int{"Spells": 2, "Potions": 0}, []string{"Spells", "Potions"})

	out := buf.String()
	assert.Contains(t, out, "Spells")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "Potions")
}
