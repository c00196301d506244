// Package lang holds the registry of languages the tag producer understands.
package lang

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arjunmahishi/symtree/symtree"
)

// Language defines the interface for a supported programming language.
type Language interface {
	// Name returns the language identifier (e.g., "go", "python").
	Name() string

	// Extensions returns file extensions for this language (e.g., [".go"]).
	Extensions() []string

	// TreeSitterLang returns the tree-sitter language grammar.
	TreeSitterLang() *sitter.Language

	// TagsQuery returns the tree-sitter query that finds definitions.
	// Each pattern captures the definition node as @definition.<type>,
	// where <type> is a symtree tag type name, and its name as @name.
	TagsQuery() string

	// Layout returns the symbol tree layout for this language.
	Layout() *symtree.Layout

	// Describe completes tag from its definition node: scope, arglist,
	// var type, and a corrected type where the query cannot tell.
	// It returns false when the definition should not be tagged.
	Describe(def *sitter.Node, tag *symtree.Tag, source []byte) bool
}

var registry = make(map[string]Language)

// Register adds a language to the registry.
// This is typically called from init() functions in language implementation files.
func Register(l Language) {
	registry[l.Name()] = l
}

// Get returns a language by name, or nil if not found.
func Get(name string) Language {
	return registry[name]
}

// List returns all registered language names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByExtension finds a language by file extension.
func ByExtension(ext string) Language {
	ext = strings.ToLower(ext)
	for _, name := range List() {
		l := registry[name]
		for _, e := range l.Extensions() {
			if e == ext {
				return l
			}
		}
	}
	return nil
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fieldText returns the collapsed text of a named field of node, or "".
func fieldText(node *sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return CollapseWhitespace(NodeText(child, source))
}
