package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var separatorRuns = regexp.MustCompile(`[_-]+`)

var titleCaser = cases.Title(language.Und)

// TitleFromPath derives a display title from a file name: runs of
// underscores and hyphens become single spaces and each word is
// title-cased. An empty stem falls back to the full file name.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := strings.TrimSpace(separatorRuns.ReplaceAllString(stem, " "))
	if name == "" {
		return base
	}
	return titleCaser.String(name)
}
