// Package deps extracts import specifiers and defined symbol names from
// source files by walking tree-sitter syntax trees. The walk runs over a
// small Cursor interface so tests can drive it with hand-built trees,
// while production parsing goes through the tree-sitter grammars.
package deps
