//go:build !sqlite_cgo
// +build !sqlite_cgo

package store

// Default build: pure Go SQLite driver, no CGO required. FTS5 is compiled
// in unconditionally.
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver to open.
	DriverName = "sqlite"

	// BuildMode describes the current build configuration.
	BuildMode = "purego"
)
