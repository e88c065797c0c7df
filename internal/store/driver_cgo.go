//go:build sqlite_cgo
// +build sqlite_cgo

package store

// This file is compiled when building with CGO and the sqlite_cgo tag.
// The C driver is noticeably faster on large libraries.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_cgo,sqlite_fts5" ./...
//
// The sqlite_fts5 tag is required: mattn/go-sqlite3 does not compile the
// FTS5 extension in by default, and the index schema depends on it.
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the database/sql driver to open.
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration.
	BuildMode = "cgo"
)
