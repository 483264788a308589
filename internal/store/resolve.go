package store

import (
	"path"
	"strings"
)

// resolveExtensions are tried, in order, when an import specifier does
// not name a stored file exactly.
var resolveExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".go", ".py"}

// GraphNeighborsOf resolves the import specifiers of filePath to the
// corpus files they name.
//
// Resolution policy: relative specifiers ("./x", "../x") are joined to
// the importing file's directory; bare specifiers are treated as
// corpus-rooted paths. Each candidate is tried as an exact match, then
// with the common extensions, then as a directory containing an index
// file. Unresolved specifiers are dropped, not errors.
func (s *Store) GraphNeighborsOf(filePath string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.graph == nil {
		return nil
	}
	entry, ok := s.graph[filePath]
	if !ok {
		return nil
	}

	known := s.knownFilesLocked()

	var neighbors []string
	seen := make(map[string]bool)
	for _, specifier := range entry.Imports {
		resolved, ok := resolveSpecifier(specifier, filePath, known)
		if !ok || resolved == filePath || seen[resolved] {
			continue
		}
		seen[resolved] = true
		neighbors = append(neighbors, resolved)
	}
	return neighbors
}

// knownFilesLocked returns the set of file paths the store knows about,
// from chunks and graph entries alike. Caller must hold at least a read
// lock.
func (s *Store) knownFilesLocked() map[string]bool {
	known := make(map[string]bool, len(s.chunks)+len(s.graph))
	for _, c := range s.chunks {
		known[c.FilePath] = true
	}
	for filePath := range s.graph {
		known[filePath] = true
	}
	return known
}

// resolveSpecifier maps one import specifier to a known file path.
func resolveSpecifier(specifier, importer string, known map[string]bool) (string, bool) {
	var base string
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		base = path.Clean(path.Join(path.Dir(importer), specifier))
	} else {
		base = path.Clean(specifier)
	}

	// Exact match first
	if known[base] {
		return base, true
	}

	// Extension inference
	for _, ext := range resolveExtensions {
		if candidate := base + ext; known[candidate] {
			return candidate, true
		}
	}

	// Index-file convention: specifier names a directory
	for _, ext := range resolveExtensions {
		if candidate := path.Join(base, "index"+ext); known[candidate] {
			return candidate, true
		}
	}

	return "", false
}
