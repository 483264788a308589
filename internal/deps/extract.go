package deps

import (
	"fmt"
	"strings"

	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// Extract walks a syntax tree and collects the file's import specifiers
// and defined symbol names, in source order and deduplicated. An
// export_statement with no source clause (and similar import-shaped
// nodes without a specifier) contributes nothing; the walk still
// descends into every node, so definitions nested in exports or class
// bodies are found.
func Extract(cursor Cursor, language string) (types.FileDependencies, error) {
	rules, ok := rulesFor(language)
	if !ok {
		return types.FileDependencies{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	var deps types.FileDependencies
	seenImport := make(map[string]bool)
	seenDef := make(map[string]bool)

	var visit func()
	visit = func() {
		node := cursor.Node()

		if rules.importNodes[node.Type] {
			if raw, found := firstDescendant(cursor, rules.specifierNodes); found {
				specifier := strings.Trim(raw, "\"'`")
				if specifier != "" && !seenImport[specifier] {
					seenImport[specifier] = true
					deps.Imports = append(deps.Imports, specifier)
				}
			}
		}

		if rules.definitionNodes[node.Type] {
			if name, found := directChild(cursor, rules.identifierNodes); found && !seenDef[name] {
				seenDef[name] = true
				deps.Definitions = append(deps.Definitions, name)
			}
		}

		if cursor.GoToFirstChild() {
			for {
				visit()
				if !cursor.GoToNextSibling() {
					break
				}
			}
			cursor.GoToParent()
		}
	}
	visit()

	return deps, nil
}

// firstDescendant finds the first node of a matching type anywhere in
// the current node's subtree, in depth-first order. The cursor returns
// to the node it started on.
func firstDescendant(cursor Cursor, match map[string]bool) (string, bool) {
	var found string
	ok := false

	var walk func()
	walk = func() {
		if node := cursor.Node(); !ok && match[node.Type] {
			found = node.Content
			ok = true
		}
		if cursor.GoToFirstChild() {
			for {
				walk()
				if !cursor.GoToNextSibling() {
					break
				}
			}
			cursor.GoToParent()
		}
	}

	if !cursor.GoToFirstChild() {
		return "", false
	}
	for {
		walk()
		if !cursor.GoToNextSibling() {
			break
		}
	}
	cursor.GoToParent()

	return found, ok
}

// directChild finds the first direct child of a matching type. Names sit
// as direct children of their declaration nodes in all supported
// grammars, and the restriction keeps receiver and parameter identifiers
// from shadowing the declared name.
func directChild(cursor Cursor, match map[string]bool) (string, bool) {
	if !cursor.GoToFirstChild() {
		return "", false
	}

	var found string
	ok := false
	for {
		if node := cursor.Node(); !ok && match[node.Type] {
			found = node.Content
			ok = true
		}
		if !cursor.GoToNextSibling() {
			break
		}
	}
	cursor.GoToParent()

	return found, ok
}
