package deps

import (
	"errors"
	"testing"
)

// fakeNode is an in-memory syntax node for driving the extractor without
// a real parser.
type fakeNode struct {
	typ      string
	content  string
	children []*fakeNode
}

func n(typ, content string, children ...*fakeNode) *fakeNode {
	return &fakeNode{typ: typ, content: content, children: children}
}

// fakeCursor walks a fakeNode tree with tree-sitter cursor semantics.
type fakeCursor struct {
	path []*fakeNode
	pos  []int // pos[i] is the index of path[i+1] within path[i].children
}

func newFakeCursor(root *fakeNode) *fakeCursor {
	return &fakeCursor{path: []*fakeNode{root}}
}

func (c *fakeCursor) current() *fakeNode { return c.path[len(c.path)-1] }

func (c *fakeCursor) Node() NodeInfo {
	cur := c.current()
	return NodeInfo{Type: cur.typ, Content: cur.content}
}

func (c *fakeCursor) GoToFirstChild() bool {
	cur := c.current()
	if len(cur.children) == 0 {
		return false
	}
	c.path = append(c.path, cur.children[0])
	c.pos = append(c.pos, 0)
	return true
}

func (c *fakeCursor) GoToNextSibling() bool {
	if len(c.path) < 2 {
		return false
	}
	parent := c.path[len(c.path)-2]
	next := c.pos[len(c.pos)-1] + 1
	if next >= len(parent.children) {
		return false
	}
	c.path[len(c.path)-1] = parent.children[next]
	c.pos[len(c.pos)-1] = next
	return true
}

func (c *fakeCursor) GoToParent() bool {
	if len(c.path) < 2 {
		return false
	}
	c.path = c.path[:len(c.path)-1]
	c.pos = c.pos[:len(c.pos)-1]
	return true
}

func TestExtractGo(t *testing.T) {
	root := n("source_file", "",
		n("import_declaration", "",
			n("import_spec_list", "",
				n("import_spec", "", n("interpreted_string_literal", `"fmt"`)),
				n("import_spec", "", n("interpreted_string_literal", `"example.com/pkg/util"`)),
			),
		),
		n("function_declaration", "",
			n("identifier", "Connect"),
			n("parameter_list", ""),
			n("block", ""),
		),
		n("method_declaration", "",
			n("parameter_list", "", n("identifier", "s"), n("type_identifier", "Store")),
			n("field_identifier", "Get"),
			n("parameter_list", ""),
		),
		n("type_declaration", "",
			n("type_spec", "", n("type_identifier", "Config"), n("struct_type", "")),
		),
	)

	deps, err := Extract(newFakeCursor(root), "go")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	wantImports := []string{"fmt", "example.com/pkg/util"}
	if len(deps.Imports) != len(wantImports) {
		t.Fatalf("expected imports %v, got %v", wantImports, deps.Imports)
	}
	for i := range wantImports {
		if deps.Imports[i] != wantImports[i] {
			t.Errorf("import %d: expected %q, got %q", i, wantImports[i], deps.Imports[i])
		}
	}

	// method name must be Get, not the receiver identifier s
	wantDefs := []string{"Connect", "Get", "Config"}
	if len(deps.Definitions) != len(wantDefs) {
		t.Fatalf("expected definitions %v, got %v", wantDefs, deps.Definitions)
	}
	for i := range wantDefs {
		if deps.Definitions[i] != wantDefs[i] {
			t.Errorf("definition %d: expected %q, got %q", i, wantDefs[i], deps.Definitions[i])
		}
	}
}

func TestExtractTypeScript(t *testing.T) {
	root := n("program", "",
		n("import_statement", "",
			n("import_clause", "", n("identifier", "helper")),
			n("string", "'./util/helper'"),
		),
		n("export_statement", "",
			n("string", `"./reexported"`),
		),
		n("export_statement", "",
			n("class_declaration", "",
				n("type_identifier", "Widget"),
				n("class_body", "",
					n("method_definition", "",
						n("property_identifier", "render"),
						n("formal_parameters", ""),
					),
				),
			),
		),
		n("interface_declaration", "", n("type_identifier", "Renderable")),
	)

	deps, err := Extract(newFakeCursor(root), "typescript")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	wantImports := []string{"./util/helper", "./reexported"}
	if len(deps.Imports) != 2 || deps.Imports[0] != wantImports[0] || deps.Imports[1] != wantImports[1] {
		t.Errorf("expected imports %v, got %v", wantImports, deps.Imports)
	}

	// the exported class and its method are still found behind the export
	wantDefs := []string{"Widget", "render", "Renderable"}
	if len(deps.Definitions) != len(wantDefs) {
		t.Fatalf("expected definitions %v, got %v", wantDefs, deps.Definitions)
	}
	for i := range wantDefs {
		if deps.Definitions[i] != wantDefs[i] {
			t.Errorf("definition %d: expected %q, got %q", i, wantDefs[i], deps.Definitions[i])
		}
	}
}

func TestExtractPython(t *testing.T) {
	root := n("module", "",
		n("import_statement", "", n("dotted_name", "os")),
		n("import_from_statement", "",
			n("relative_import", ".models"),
			n("dotted_name", "User"),
		),
		n("function_definition", "",
			n("identifier", "load_user"),
			n("parameters", ""),
			n("block", ""),
		),
		n("class_definition", "",
			n("identifier", "Session"),
			n("block", "",
				n("function_definition", "", n("identifier", "close")),
			),
		),
	)

	deps, err := Extract(newFakeCursor(root), "python")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	// relative_import precedes the imported names in the from-statement
	wantImports := []string{"os", ".models"}
	if len(deps.Imports) != 2 || deps.Imports[0] != wantImports[0] || deps.Imports[1] != wantImports[1] {
		t.Errorf("expected imports %v, got %v", wantImports, deps.Imports)
	}

	wantDefs := []string{"load_user", "Session", "close"}
	if len(deps.Definitions) != len(wantDefs) {
		t.Fatalf("expected definitions %v, got %v", wantDefs, deps.Definitions)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	root := n("source_file", "",
		n("import_spec", "", n("interpreted_string_literal", `"fmt"`)),
		n("import_spec", "", n("interpreted_string_literal", `"fmt"`)),
		n("function_declaration", "", n("identifier", "Run")),
		n("function_declaration", "", n("identifier", "Run")),
	)

	deps, err := Extract(newFakeCursor(root), "go")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(deps.Imports) != 1 {
		t.Errorf("expected duplicate import collapsed, got %v", deps.Imports)
	}
	if len(deps.Definitions) != 1 {
		t.Errorf("expected duplicate definition collapsed, got %v", deps.Definitions)
	}
}

func TestExtractUnsupportedLanguage(t *testing.T) {
	_, err := Extract(newFakeCursor(n("root", "")), "cobol")
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestExtractEmptyTree(t *testing.T) {
	deps, err := Extract(newFakeCursor(n("source_file", "")), "go")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(deps.Imports) != 0 || len(deps.Definitions) != 0 {
		t.Errorf("expected no dependencies from an empty tree, got %+v", deps)
	}
}
