// Package storage persists corpus snapshots (chunks with embeddings and
// the dependency graph) to SQLite. Two drivers are supported via build
// tags: the CGO mattn driver under the sqlite_vec tag and the pure Go
// modernc driver by default.
package storage
