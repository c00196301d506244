// Package parser produces symtree tags from source files with tree-sitter.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arjunmahishi/symtree/lang"
	"github.com/arjunmahishi/symtree/symtree"
)

const definitionPrefix = "definition."

// Parser wraps a tree-sitter parser for a specific language.
// A Parser is not safe for concurrent use; give each goroutine its own.
type Parser struct {
	parser *sitter.Parser
	lang   lang.Language
}

// New creates a new Parser for the given language.
func New(language lang.Language) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(language.TreeSitterLang())
	return &Parser{
		parser: p,
		lang:   language,
	}
}

// Parse parses source code and returns the syntax tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return tree, nil
}

// ParseFile reads and parses a file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*sitter.Tree, []byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	tree, err := p.Parse(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	return tree, source, nil
}

// Query is a compiled tag query. It may be shared across goroutines.
type Query struct {
	query *sitter.Query
	lang  lang.Language
	types []symtree.TagType // by capture index; 0 for non-definition captures
	name  uint32
}

// NewQuery compiles the tag query of a language.
func NewQuery(language lang.Language) (*Query, error) {
	q, err := sitter.NewQuery([]byte(language.TagsQuery()), language.TreeSitterLang())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	query := &Query{
		query: q,
		lang:  language,
		types: make([]symtree.TagType, q.CaptureCount()),
		name:  ^uint32(0),
	}
	for i := uint32(0); i < q.CaptureCount(); i++ {
		capture := q.CaptureNameForId(i)
		if capture == "name" {
			query.name = i
			continue
		}
		typeName, ok := strings.CutPrefix(capture, definitionPrefix)
		if !ok {
			continue
		}
		typ, err := symtree.ParseTagType(typeName)
		if err != nil {
			return nil, fmt.Errorf("compile query: capture @%s: %w", capture, err)
		}
		query.types[i] = typ
	}
	if query.name == ^uint32(0) {
		return nil, fmt.Errorf("compile query: %s query has no @name capture", language.Name())
	}

	return query, nil
}

// Tags runs the query on a syntax tree and returns one tag per definition,
// in source order.
func (q *Query) Tags(tree *sitter.Tree, source []byte, file string) []symtree.Tag {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.query, tree.RootNode())

	seen := make(map[uint32]struct{})
	var tags []symtree.Tag
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)

		var nameNode, defNode *sitter.Node
		var typ symtree.TagType
		for _, c := range match.Captures {
			switch {
			case c.Index == q.name:
				nameNode = c.Node
			case q.types[c.Index] != symtree.TypeUndefined:
				defNode = c.Node
				typ = q.types[c.Index]
			}
		}
		if nameNode == nil || defNode == nil {
			continue
		}
		if _, dup := seen[nameNode.StartByte()]; dup {
			continue
		}
		seen[nameNode.StartByte()] = struct{}{}

		tag := symtree.Tag{
			Name:    lang.NodeText(nameNode, source),
			Type:    typ,
			Line:    int(defNode.StartPoint().Row) + 1,
			EndLine: int(defNode.EndPoint().Row) + 1,
			File:    file,
		}
		if !q.lang.Describe(defNode, &tag, source) {
			continue
		}
		tags = append(tags, tag)
	}

	return tags
}

// FileTags parses path and returns its tags. displayPath is stored in
// each tag's File.
func (p *Parser) FileTags(ctx context.Context, q *Query, path, displayPath string) ([]symtree.Tag, error) {
	tree, source, err := p.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return q.Tags(tree, source, displayPath), nil
}
