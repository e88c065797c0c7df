package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_JoinsHyphenatedLineBreaks(t *testing.T) {
	// Given: a word split across lines by a hyphen
	raw := "a wonder-\nful spell"

	// When: cleaning
	got := Clean(raw)

	// Then: the word is rejoined and the line flows
	assert.Equal(t, "a wonder- ful spell", Clean("a wonder- \nful spell"), "hyphen at end of line only joins when directly before the break")
	assert.Equal(t, "a wonderful spell", got)
}

func TestClean_JoinsHyphenatedBreakBeforeAccentedLetter(t *testing.T) {
	// The continuation starts with a non-ASCII letter
	assert.Equal(t, "die Veröffentlichung", Clean("die Ver-\nöffentlichung"))
	assert.Equal(t, "alte Zaubertränke", Clean("alte Zaubertr-\nänke"))
}

func TestClean_UnwrapsFlowedLines(t *testing.T) {
	raw := "first line\nsecond line"
	assert.Equal(t, "first line second line", Clean(raw))
}

func TestClean_NormalizesWindowsNewlines(t *testing.T) {
	raw := "one\r\ntwo\rthree"
	assert.Equal(t, "one two three", Clean(raw))
}

func TestClean_InsertsSpaceAtCaseBoundary(t *testing.T) {
	// Joined words from broken PDF extraction
	assert.Equal(t, "bad Spacing", Clean("badSpacing"))
}

func TestClean_InsertsSpaceAfterPunctuation(t *testing.T) {
	assert.Equal(t, "end. Next", Clean("end.Next"))
}

func TestClean_StripsInvisibleCharacters(t *testing.T) {
	// Soft hyphen, zero-width space, word joiner
	raw := "spell­book zero​width word⁠joiner"
	assert.Equal(t, "spellbook zerowidth wordjoiner", Clean(raw))
}

func TestClean_CollapsesSpaceRuns(t *testing.T) {
	assert.Equal(t, "a b c", Clean("a    b\t\tc"))
}

func TestClean_TrimsResult(t *testing.T) {
	assert.Equal(t, "text", Clean("  \n text \n  "))
}

func TestClean_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "", Clean("   \n\t  "))
}
