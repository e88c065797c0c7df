// Package textclean normalizes extracted text into a canonical searchable
// form. The pipeline is deliberately lossy: it flows documents into single
// lines and repairs common extraction artifacts so full-text search and
// snippet extraction behave well. It does not preserve layout.
package textclean

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// A hyphen at a line wrap followed by a word character joins the
	// split word. Only that exact pattern. \w is ASCII-only in RE2, so
	// the class is spelled out to cover accented letters.
	wrapHyphen = regexp.MustCompile(`-\n([\p{L}\p{N}_])`)

	// Inline whitespace around a newline collapses to one space.
	flowedNewline = regexp.MustCompile(`[ \t]*\n[ \t]*`)

	// Missing separator at a lowercase/uppercase boundary, a common PDF
	// column-merge artifact.
	caseBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

	// Sentence punctuation glued to the next letter.
	punctBoundary = regexp.MustCompile(`([.,;:!?])([A-Za-z])`)

	// Runs of inline whitespace.
	spaceRuns = regexp.MustCompile(`[ \t]{2,}`)

	// Invisible characters that break term matching: soft hyphen,
	// zero-width space, word joiner.
	invisibles = strings.NewReplacer("­", "", "​", "", "⁠", "")
)

// Clean runs the normalization pipeline. Each step feeds the next; the
// order is load-bearing. Empty or whitespace-only input yields "".
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	t := norm.NFC.String(raw)

	t = strings.ReplaceAll(t, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")

	t = invisibles.Replace(t)

	t = wrapHyphen.ReplaceAllString(t, "$1")
	t = flowedNewline.ReplaceAllString(t, " ")
	t = caseBoundary.ReplaceAllString(t, "$1 $2")
	t = punctBoundary.ReplaceAllString(t, "$1 $2")
	t = spaceRuns.ReplaceAllString(t, " ")

	return strings.TrimSpace(t)
}
