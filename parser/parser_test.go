package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/symtree/lang"
	"github.com/arjunmahishi/symtree/symtree"
)

const goSource = `package shapes

import "math"

const Pi = 3.14

var origin Point

// Shape is anything with an area.
type Shape interface {
	Area() float64
}

type Point struct {
	X float64
	Y float64
}

func (p *Point) Dist(q Point) float64 {
	local := 1
	_ = local
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func New(x, y float64) Point {
	var tmp Point
	return tmp
}

type ID int
`

const pythonSource = `import os

VERSION = "1.0"
limit: int = 10

class Base:
    pass

class Widget(Base):
    size = 3

    def __init__(self, size):
        self.size = size

    @property
    def area(self) -> int:
        def helper():
            return 1
        return helper()

    class Meta:
        ordering = ["id"]

def main():
    w = Widget(2)
`

func formatTags(tags []symtree.Tag) []string {
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Line < tags[j].Line })
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		line := fmt.Sprintf("%s %s %d-%d", t.Type, t.Name, t.Line, t.EndLine)
		if t.Scope != "" {
			line += " scope=" + t.Scope
		}
		if t.Arglist != "" {
			line += " args=" + t.Arglist
		}
		if t.VarType != "" {
			line += " vartype=" + t.VarType
		}
		if t.Inheritance != "" {
			line += " inherits=" + t.Inheritance
		}
		out = append(out, line)
	}
	return out
}

func extract(t *testing.T, language string, source string) []symtree.Tag {
	t.Helper()
	l := lang.Get(language)
	require.NotNil(t, l)

	q, err := NewQuery(l)
	require.NoError(t, err)

	tree, err := New(l).Parse(context.Background(), []byte(source))
	require.NoError(t, err)
	defer tree.Close()

	return q.Tags(tree, []byte(source), "src")
}

func TestGoTags(t *testing.T) {
	tags := extract(t, "go", goSource)
	require.Equal(t, []string{
		"package shapes 1-1",
		"macro Pi 5-5",
		"variable origin 7-7 vartype=Point",
		"interface Shape 10-12",
		"struct Point 14-17",
		"member X 15-15 scope=Point vartype=float64",
		"member Y 16-16 scope=Point vartype=float64",
		"method Dist 19-23 scope=Point args=(q Point) vartype=float64",
		"function New 25-28 args=(x, y float64) vartype=Point",
		"typedef ID 30-30 vartype=int",
	}, formatTags(tags))

	for _, tag := range tags {
		require.Equal(t, "src", tag.File)
	}
}

func TestPythonTags(t *testing.T) {
	tags := extract(t, "python", pythonSource)
	require.Equal(t, []string{
		"variable VERSION 3-3",
		"variable limit 4-4 vartype=int",
		"class Base 6-7",
		"class Widget 9-22 inherits=Base",
		"method __init__ 12-13 scope=Widget args=(self, size)",
		"method area 16-19 scope=Widget args=(self) vartype=int",
		"function helper 17-18 scope=Widget.area args=()",
		"class Meta 21-22 scope=Widget",
		"function main 24-25 args=()",
	}, formatTags(tags))
}

func TestFileTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.go")
	require.NoError(t, os.WriteFile(path, []byte(goSource), 0644))

	l := lang.Get("go")
	q, err := NewQuery(l)
	require.NoError(t, err)

	tags, err := New(l).FileTags(context.Background(), q, path, "shapes.go")
	require.NoError(t, err)
	require.Len(t, tags, 10)
	require.Equal(t, "shapes.go", tags[0].File)

	_, err = New(l).FileTags(context.Background(), q, filepath.Join(dir, "missing.go"), "missing.go")
	require.ErrorContains(t, err, "read file")
}

func TestEmptySource(t *testing.T) {
	require.Empty(t, extract(t, "go", ""))
}

type customQuery struct {
	lang.Go
	query string
}

func (c *customQuery) TagsQuery() string { return c.query }

func TestNewQueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"syntax", `(function_declaration`, "compile query"},
		{"unknown_type", `(function_declaration name: (identifier) @name) @definition.gizmo`, "gizmo"},
		{"no_name", `(function_declaration) @definition.function`, "no @name capture"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQuery(&customQuery{query: tc.query})
			require.ErrorContains(t, err, tc.want)
		})
	}
}
