// Package ui renders command output for the terminal, with color when the
// output is an interactive terminal and plain text for pipes and CI.
package ui

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/spellcaster/grimoire/internal/search"
	"github.com/spellcaster/grimoire/internal/store"
)

// Printer formats results to a writer with a chosen style set.
type Printer struct {
	out    io.Writer
	styles Styles
}

var forcePlain bool

// ForcePlain disables styling process-wide regardless of terminal
// detection, backing the --no-color flag.
func ForcePlain() { forcePlain = true }

// NewPrinter picks styles based on the output: colored for terminals,
// plain for everything else, when NO_COLOR is set, or when plain mode
// was forced.
func NewPrinter(w io.Writer) *Printer {
	styles := NoColorStyles()
	if !forcePlain && IsTTY(w) && !DetectNoColor() {
		styles = DefaultStyles()
	}
	return &Printer{out: w, styles: styles}
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// SearchResult prints a search result list with highlighted snippets.
func (p *Printer) SearchResult(res *search.Result) {
	if len(res.Rows) == 0 {
		fmt.Fprintf(p.out, "No results for %q\n", res.Query)
		return
	}
	label := "results"
	if len(res.Rows) == 1 {
		label = "result"
	}
	header := fmt.Sprintf("%d %s for %q", len(res.Rows), label, res.Query)
	if res.Fallback {
		header += " (substring match)"
	}
	fmt.Fprintln(p.out, p.styles.Count.Render(header))
	fmt.Fprintln(p.out)

	for _, row := range res.Rows {
		fmt.Fprintln(p.out, p.styles.Title.Render(row.Title))
		fmt.Fprintln(p.out, p.styles.Path.Render("  "+row.Path))
		fmt.Fprintln(p.out, "  "+p.renderSnippet(row.Snippet))
		fmt.Fprintln(p.out)
	}
}

// Facets prints facet names with document counts, one per line.
func (p *Printer) Facets(counts map[string]int, order []string) {
	for _, name := range order {
		fmt.Fprintf(p.out, "%s %s\n",
			p.styles.Title.Render(fmt.Sprintf("%-12s", name)),
			p.styles.Count.Render(fmt.Sprintf("%d", counts[name])))
	}
}

// Document prints a full document with its metadata header.
func (p *Printer) Document(doc *store.Document) {
	fmt.Fprintln(p.out, p.styles.Title.Render(doc.Title))
	fmt.Fprintln(p.out, p.styles.Path.Render(doc.Path))
	fmt.Fprintln(p.out, p.styles.Dim.Render("indexed "+doc.UpdatedAt.Format("2006-01-02 15:04")))
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, doc.Content)
}

// Successf prints a success line.
func (p *Printer) Successf(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// renderSnippet converts snippet markup into terminal styling. Snippets come
// from the index as HTML with <mark> highlights, so entities are unescaped
// after the tags are swapped for style sequences.
func (p *Printer) renderSnippet(s string) string {
	parts := strings.Split(s, "<mark>")
	var b strings.Builder
	b.WriteString(html.UnescapeString(parts[0]))
	for _, part := range parts[1:] {
		marked, rest, _ := strings.Cut(part, "</mark>")
		b.WriteString(p.styles.Highlight.Render(html.UnescapeString(marked)))
		b.WriteString(html.UnescapeString(rest))
	}
	return b.String()
}
