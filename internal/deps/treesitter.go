package deps

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// treeCursor adapts a tree-sitter cursor to the Cursor interface.
type treeCursor struct {
	cursor *sitter.TreeCursor
	source []byte
}

func (t *treeCursor) Node() NodeInfo {
	node := t.cursor.CurrentNode()
	return NodeInfo{Type: node.Type(), Content: node.Content(t.source)}
}

func (t *treeCursor) GoToFirstChild() bool  { return t.cursor.GoToFirstChild() }
func (t *treeCursor) GoToNextSibling() bool { return t.cursor.GoToNextSibling() }
func (t *treeCursor) GoToParent() bool      { return t.cursor.GoToParent() }

// grammarFor maps a language name to its tree-sitter grammar.
func grammarFor(language string) (*sitter.Language, bool) {
	switch language {
	case "go":
		return golang.GetLanguage(), true
	case "javascript":
		return javascript.GetLanguage(), true
	case "typescript":
		return typescript.GetLanguage(), true
	case "python":
		return python.GetLanguage(), true
	}
	return nil, false
}

// ParseSource parses source text and returns a cursor positioned at the
// tree root plus a cleanup releasing the parse. Callers must invoke the
// cleanup once done walking.
func ParseSource(ctx context.Context, language string, source []byte) (Cursor, func(), error) {
	grammar, ok := grammarFor(language)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s source: %w", language, err)
	}

	cursor := sitter.NewTreeCursor(tree.RootNode())
	cleanup := func() {
		cursor.Close()
		tree.Close()
	}

	return &treeCursor{cursor: cursor, source: source}, cleanup, nil
}

// ExtractSource parses and extracts in one call.
func ExtractSource(ctx context.Context, language string, source []byte) (types.FileDependencies, error) {
	cursor, cleanup, err := ParseSource(ctx, language, source)
	if err != nil {
		return types.FileDependencies{}, err
	}
	defer cleanup()

	return Extract(cursor, language)
}
