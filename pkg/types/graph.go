package types

// FileDependencies holds the extracted import and definition lists for a
// single file. Order follows source order and is preserved through
// persistence round-trips.
type FileDependencies struct {
	// Imports are literal module/path specifiers as written in source.
	Imports []string
	// Definitions are the names of symbols the file defines.
	Definitions []string
}

// DependencyGraph maps a file path to its dependencies. The graph is built
// once per corpus and replaced wholesale; stale or partial graphs are
// tolerated by every consumer.
type DependencyGraph map[string]FileDependencies

// Clone returns a deep copy of the graph.
func (g DependencyGraph) Clone() DependencyGraph {
	if g == nil {
		return nil
	}
	dup := make(DependencyGraph, len(g))
	for path, deps := range g {
		entry := FileDependencies{
			Imports:     make([]string, len(deps.Imports)),
			Definitions: make([]string, len(deps.Definitions)),
		}
		copy(entry.Imports, deps.Imports)
		copy(entry.Definitions, deps.Definitions)
		dup[path] = entry
	}
	return dup
}
