//go:build ignore

// Package main generates a synthetic document library for benchmarking.
// Usage: go run scripts/generate-test-library.go -files 500 -output testdata/library
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numFiles  = flag.Int("files", 500, "Number of files to generate")
	outputDir = flag.String("output", "testdata/library", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var topics = []string{
	"spell", "charm", "ward", "potion", "elixir", "remedy", "salve",
	"herb", "sigil", "circle", "tincture", "antidote", "banish", "healing",
}

var fillers = []string{
	"Gather the ingredients at dawn and keep them dry.",
	"Repeat the words three times, no more and no less.",
	"Let the mixture rest under moonlight before use.",
	"The circle must be closed before anything else begins.",
	"Old sources disagree on the exact proportions.",
	"Store away from sunlight in a sealed clay jar.",
	"This variant is gentler and better suited for children.",
	"If the color turns dark, start over with fresh water.",
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "cannot create output dir: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *numFiles; i++ {
		topic := topics[rng.Intn(len(topics))]
		ext := ".txt"
		if i%3 == 0 {
			ext = ".md"
		}
		name := fmt.Sprintf("%s_%03d%s", topic, i, ext)

		var b strings.Builder
		fmt.Fprintf(&b, "Notes on the %s, entry %d.\n\n", topic, i)
		paragraphs := 2 + rng.Intn(6)
		for p := 0; p < paragraphs; p++ {
			sentences := 2 + rng.Intn(4)
			for s := 0; s < sentences; s++ {
				b.WriteString(fillers[rng.Intn(len(fillers))])
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "The %s remains the key element.\n\n", topics[rng.Intn(len(topics))])
		}

		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "cannot write %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Generated %d files in %s\n", *numFiles, *outputDir)
}
