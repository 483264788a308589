//go:build sqlite_vec
// +build sqlite_vec

package storage

// This file is compiled when building with CGO and the sqlite_vec tag.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_vec" ./...
//
// The CGO driver links the C SQLite library, which is faster for large
// snapshots and is the recommended production configuration.
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
