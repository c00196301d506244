// Package output renders symbol trees as JSON or indented text.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arjunmahishi/symtree/symtree"
)

// Format selects how documents are rendered.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat resolves a --format flag value. "" means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or text)", s)
}

// Node is the serialized form of one tree node.
type Node struct {
	ID       uint64 `json:"id"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Line     int    `json:"line,omitempty"`
	EndLine  int    `json:"end_line,omitempty"`
	Tooltip  string `json:"tooltip,omitempty"`
	Expanded bool   `json:"expanded"`
	Children []Node `json:"children,omitempty"`
}

// Document is the outline of one file.
type Document struct {
	File       string         `json:"file"`
	Language   string         `json:"language"`
	Stats      *symtree.Stats `json:"stats,omitempty"`
	Categories []Node         `json:"categories"`
}

// FromTree converts the visible part of tree into a Document.
func FromTree(file, language string, tree *symtree.Tree) Document {
	doc := Document{
		File:       file,
		Language:   language,
		Categories: []Node{},
	}
	for _, c := range tree.Categories() {
		doc.Categories = append(doc.Categories, fromNode(c))
	}
	return doc
}

func fromNode(n *symtree.Node) Node {
	out := Node{
		ID:       n.ID(),
		Label:    n.Label(),
		Kind:     "category",
		Tooltip:  n.Tooltip(),
		Expanded: n.Expanded(),
	}
	if t := n.Tag(); t != nil {
		out.Kind = t.Type.String()
		out.Name = t.Name
		out.Scope = t.Scope
		out.Line = t.Line
		out.EndLine = t.EndLine
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, fromNode(c))
	}
	return out
}

// Writer handles structured output.
type Writer struct {
	out     io.Writer
	encoder *json.Encoder
	format  Format
}

// Config holds output configuration.
type Config struct {
	Compact bool
	Format  Format
	Output  io.Writer
}

// New creates a new output Writer.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	return &Writer{
		out:     cfg.Output,
		encoder: enc,
		format:  cfg.Format,
	}
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// WriteDocument outputs one outline in the configured format.
func (w *Writer) WriteDocument(doc Document) error {
	if w.format == FormatJSON {
		return w.Write(doc)
	}
	_, err := io.WriteString(w.out, Text(doc))
	return err
}

// WriteDocuments outputs outlines in the configured format. JSON output
// is always an array.
func (w *Writer) WriteDocuments(docs []Document) error {
	if w.format == FormatJSON {
		return w.Write(docs)
	}

	for i, doc := range docs {
		if i > 0 {
			if _, err := io.WriteString(w.out, "\n"); err != nil {
				return err
			}
		}
		if err := w.WriteDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

// Text renders doc as an indented tree, two spaces per level. Collapsed
// nodes are shown with a trailing "+" and their children omitted.
func Text(doc Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", doc.File, doc.Language)
	for _, c := range doc.Categories {
		writeText(&sb, c, 1)
	}
	return sb.String()
}

func writeText(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Label)
	if len(n.Children) > 0 && !n.Expanded {
		sb.WriteString(" +")
		sb.WriteByte('\n')
		return
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		writeText(sb, c, depth+1)
	}
}

// WriteError writes an error to stderr as {"error": "..."}.
func WriteError(err error) {
	enc := json.NewEncoder(os.Stderr)
	enc.Encode(map[string]string{
		"error": err.Error(),
	})
}
