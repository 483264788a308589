package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// Snapshot persists one corpus (chunks, embeddings, dependency graph) to
// a SQLite file so a server restart skips re-embedding.
type Snapshot struct {
	db   *sql.DB
	path string
}

// Open opens or creates a snapshot database at path and applies the
// schema. ":memory:" is accepted for tests.
func Open(path string) (*Snapshot, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite benefits from a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Snapshot{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Snapshot) Path() string { return s.path }

// Close closes the database connection.
func (s *Snapshot) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot contents with the store's current state in
// one transaction. A failed save leaves the previous snapshot intact.
func (s *Snapshot) Save(ctx context.Context, st *store.Store) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"graph_imports", "graph_definitions", "graph_files", "chunks"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := saveChunks(ctx, tx, st.GetAll()); err != nil {
		return err
	}
	if err := saveGraph(ctx, tx, st.Graph()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot save: %w", err)
	}
	return nil
}

func saveChunks(ctx context.Context, tx *sql.Tx, chunks []*types.EmbeddedChunk) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, file_path, language, node_type, name, code, start_line, end_line, embedding, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for position, c := range chunks {
		_, err := stmt.ExecContext(ctx,
			c.ID, c.FilePath, c.Language, string(c.NodeType), c.Name, c.Code,
			c.StartLine, c.EndLine, serializeVector(c.Embedding), position)
		if err != nil {
			return fmt.Errorf("save chunk %s: %w", c.ID, err)
		}
	}
	return nil
}

func saveGraph(ctx context.Context, tx *sql.Tx, graph types.DependencyGraph) error {
	paths := make([]string, 0, len(graph))
	for path := range graph {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if _, err := tx.ExecContext(ctx, "INSERT INTO graph_files (file_path) VALUES (?)", path); err != nil {
			return fmt.Errorf("save graph file %s: %w", path, err)
		}

		entry := graph[path]
		for i, specifier := range entry.Imports {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO graph_imports (file_path, position, specifier) VALUES (?, ?, ?)",
				path, i, specifier); err != nil {
				return fmt.Errorf("save import of %s: %w", path, err)
			}
		}
		for i, name := range entry.Definitions {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO graph_definitions (file_path, position, name) VALUES (?, ?, ?)",
				path, i, name); err != nil {
				return fmt.Errorf("save definition of %s: %w", path, err)
			}
		}
	}
	return nil
}

// Load reads the snapshot into the store: chunks in their saved order
// through one atomic insert, then the dependency graph.
func (s *Snapshot) Load(ctx context.Context, st *store.Store) error {
	chunks, err := s.loadChunks(ctx)
	if err != nil {
		return err
	}
	if len(chunks) > 0 {
		if err := st.Insert(chunks); err != nil {
			return fmt.Errorf("load snapshot chunks: %w", err)
		}
	}

	graph, err := s.loadGraph(ctx)
	if err != nil {
		return err
	}
	if len(graph) > 0 {
		st.SetGraph(graph)
	}
	return nil
}

func (s *Snapshot) loadChunks(ctx context.Context) ([]types.EmbeddedChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_path, language, node_type, name, code, start_line, end_line, embedding
		FROM chunks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("read snapshot chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []types.EmbeddedChunk
	for rows.Next() {
		var c types.EmbeddedChunk
		var nodeType string
		var blob []byte
		if err := rows.Scan(&c.ID, &c.FilePath, &c.Language, &nodeType, &c.Name, &c.Code,
			&c.StartLine, &c.EndLine, &blob); err != nil {
			return nil, fmt.Errorf("scan snapshot chunk: %w", err)
		}
		c.NodeType = types.NodeType(nodeType)
		c.Embedding = deserializeVector(blob)
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *Snapshot) loadGraph(ctx context.Context) (types.DependencyGraph, error) {
	graph := make(types.DependencyGraph)

	files, err := s.db.QueryContext(ctx, "SELECT file_path FROM graph_files")
	if err != nil {
		return nil, fmt.Errorf("read graph files: %w", err)
	}
	defer func() { _ = files.Close() }()
	for files.Next() {
		var path string
		if err := files.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan graph file: %w", err)
		}
		graph[path] = types.FileDependencies{}
	}
	if err := files.Err(); err != nil {
		return nil, err
	}

	imports, err := s.db.QueryContext(ctx,
		"SELECT file_path, specifier FROM graph_imports ORDER BY file_path, position")
	if err != nil {
		return nil, fmt.Errorf("read graph imports: %w", err)
	}
	defer func() { _ = imports.Close() }()
	for imports.Next() {
		var path, specifier string
		if err := imports.Scan(&path, &specifier); err != nil {
			return nil, fmt.Errorf("scan graph import: %w", err)
		}
		entry := graph[path]
		entry.Imports = append(entry.Imports, specifier)
		graph[path] = entry
	}
	if err := imports.Err(); err != nil {
		return nil, err
	}

	definitions, err := s.db.QueryContext(ctx,
		"SELECT file_path, name FROM graph_definitions ORDER BY file_path, position")
	if err != nil {
		return nil, fmt.Errorf("read graph definitions: %w", err)
	}
	defer func() { _ = definitions.Close() }()
	for definitions.Next() {
		var path, name string
		if err := definitions.Scan(&path, &name); err != nil {
			return nil, fmt.Errorf("scan graph definition: %w", err)
		}
		entry := graph[path]
		entry.Definitions = append(entry.Definitions, name)
		graph[path] = entry
	}
	return graph, definitions.Err()
}

// ChunkCount returns how many chunks the snapshot holds.
func (s *Snapshot) ChunkCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("count snapshot chunks: %w", err)
	}
	return count, nil
}
