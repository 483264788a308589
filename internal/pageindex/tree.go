package pageindex

import "unicode/utf8"

// Level is the depth of a node in the hierarchy.
type Level int

const (
	LevelRoot      Level = 0
	LevelDirectory Level = 1
	LevelFile      Level = 2
)

// Summary length caps, in bytes.
const (
	fileSummaryCap  = 600 // dedicated file_summary chunk
	fileFallbackCap = 500 // first ordinary chunk fallback
	dirSummaryCap   = 600 // dedicated directory_summary chunk
	dirListingCap   = 400 // synthesized "Contains: ..." fallback
	rootSummaryCap  = 800
	rootDirEntryCap = 60
	rootMaxDirs     = 15
)

// Node is one entry of the root→directory→file hierarchy.
type Node struct {
	ID       string
	Level    Level
	Path     string
	Summary  string
	ChildIDs []string
	// ChunkIDs is the union of the chunk ids of every descendant file
	// node. Directory summary chunks contribute summary text only and
	// never appear here.
	ChunkIDs []string
}

// Tree is the hierarchical index of one store snapshot. It is rebuilt
// lazily from store contents; there is no extra indexing pass to keep
// current.
type Tree struct {
	RootID string
	Nodes  map[string]*Node
}

// Empty reports whether the tree has no navigable nodes.
func (t *Tree) Empty() bool {
	return t == nil || t.RootID == "" || len(t.Nodes) == 0
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	if t.Empty() {
		return nil
	}
	return t.Nodes[t.RootID]
}

// truncate caps s at n bytes, backing up to a rune boundary so the cut
// never leaves invalid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
