package deps

import "errors"

// ErrUnsupportedLanguage reports a language with no extraction rules.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// NodeInfo describes one syntax node during traversal.
type NodeInfo struct {
	// Type is the grammar node type, e.g. "import_declaration".
	Type string
	// Content is the source text the node spans.
	Content string
}

// Cursor walks a parsed syntax tree. Movement methods return false when
// the move is impossible and leave the cursor in place, matching
// tree-sitter cursor semantics so any tree shape can back it.
type Cursor interface {
	Node() NodeInfo
	GoToFirstChild() bool
	GoToNextSibling() bool
	GoToParent() bool
}
