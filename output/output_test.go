package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/symtree/symtree"
)

func sampleTree(t *testing.T) *symtree.Tree {
	t.Helper()
	tree, err := symtree.NewTree(nil)
	require.NoError(t, err)
	require.NoError(t, tree.Reconcile([]symtree.Tag{
		{Type: symtree.TypeClass, Name: "Widget", Line: 3, EndLine: 8},
		{Type: symtree.TypeMethod, Name: "draw", Scope: "Widget", Arglist: "()", VarType: "void", Line: 5},
		{Type: symtree.TypeFunction, Name: "main", Arglist: "()", VarType: "int", Line: 10},
	}))
	return tree
}

func TestText(t *testing.T) {
	tree := sampleTree(t)
	doc := FromTree("a.cpp", "c++", tree)

	require.Equal(t, `a.cpp (c++)
  Classes
    Widget [3]
      draw [5]
  Functions
    main [10]
`, Text(doc))

	widget := tree.Categories()[0].Children()[0]
	widget.SetExpanded(false)
	require.Equal(t, `a.cpp (c++)
  Classes
    Widget [3] +
  Functions
    main [10]
`, Text(FromTree("a.cpp", "c++", tree)))
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	w := New(Config{Output: &buf, Compact: true})
	require.NoError(t, w.WriteDocument(FromTree("a.cpp", "c++", sampleTree(t))))
	require.NotContains(t, buf.String(), "\n  ")

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, "a.cpp", doc.File)
	require.Len(t, doc.Categories, 2)

	classes := doc.Categories[0]
	require.Equal(t, "Classes", classes.Label)
	require.Equal(t, "category", classes.Kind)
	require.True(t, classes.Expanded)

	widget := classes.Children[0]
	require.Equal(t, uint64(11), widget.ID)
	require.Equal(t, "class", widget.Kind)
	require.Equal(t, 8, widget.EndLine)

	draw := widget.Children[0]
	require.Equal(t, "void draw()", draw.Tooltip)
	require.Equal(t, "Widget", draw.Scope)
	require.Empty(t, draw.Children)
}

func TestWriteDocumentsMany(t *testing.T) {
	var buf bytes.Buffer
	w := New(Config{Output: &buf})
	tree := sampleTree(t)
	require.NoError(t, w.WriteDocuments([]Document{FromTree("a.cpp", "c++", tree), FromTree("b.cpp", "c++", tree)}))

	var docs []Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 2)
	require.Equal(t, "b.cpp", docs[1].File)

	buf.Reset()
	w = New(Config{Output: &buf, Format: FormatText})
	require.NoError(t, w.WriteDocuments([]Document{FromTree("a.cpp", "c++", tree), FromTree("b.cpp", "c++", tree)}))
	require.Contains(t, buf.String(), "main [10]\n\nb.cpp (c++)\n")
}

func TestEmptyTreeHasNoCategories(t *testing.T) {
	tree, err := symtree.NewTree(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(Config{Output: &buf, Compact: true}).WriteDocument(FromTree("e.cpp", "c++", tree)))
	require.JSONEq(t, `{"file":"e.cpp","language":"c++","categories":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, New(Config{Output: &buf, Compact: true}).WriteDocuments(nil))
	require.JSONEq(t, `null`, buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	f, err = ParseFormat("text")
	require.NoError(t, err)
	require.Equal(t, FormatText, f)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}
