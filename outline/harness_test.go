package outline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/symtree/output"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		tmpDir := t.TempDir()

		// Track files created by "file" commands
		files := make(map[string]string) // name -> abs path

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "file":
				return handleFile(t, d, tmpDir, files)
			case "outline":
				return handleOutline(t, d, files)
			case "symbols":
				return handleSymbols(t, d, tmpDir)
			case "scope":
				return handleScope(t, d, files)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

// handleFile creates a file in the temp directory
func handleFile(
	t *testing.T, d *datadriven.TestData, tmpDir string, files map[string]string,
) string {
	var name string
	d.ScanArgs(t, "name", &name)

	absPath := filepath.Join(tmpDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0755))
	require.NoError(t, os.WriteFile(absPath, []byte(d.Input), 0644))

	files[name] = absPath
	return ""
}

// handleOutline runs Outline() and renders the tree as text
func handleOutline(t *testing.T, d *datadriven.TestData, files map[string]string) string {
	var fileName string
	d.ScanArgs(t, "file", &fileName)

	opts := OutlineOptions{File: files[fileName]}
	if d.HasArg("sort") {
		d.ScanArgs(t, "sort", &opts.Sort)
	}
	if d.HasArg("lang") {
		d.ScanArgs(t, "lang", &opts.Language)
	}

	doc, err := Outline(context.Background(), opts)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return output.Text(doc.Render())
}

// handleSymbols runs Outlines() over the whole temp dir
func handleSymbols(t *testing.T, d *datadriven.TestData, tmpDir string) string {
	opts := SymbolsOptions{
		Path: tmpDir,
		Jobs: 2,
	}
	if d.HasArg("lang") {
		d.ScanArgs(t, "lang", &opts.Language)
	}

	docs, err := Outlines(context.Background(), opts)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	if len(docs) == 0 {
		return "(no files)"
	}

	var out []string
	for _, doc := range docs {
		out = append(out, fmt.Sprintf("%s: %d tags", doc.File, doc.Tree.Len()))
	}
	return strings.Join(out, "\n")
}

// handleScope runs Scope() and prints the enclosing tag
func handleScope(t *testing.T, d *datadriven.TestData, files map[string]string) string {
	var fileName string
	d.ScanArgs(t, "file", &fileName)

	opts := ScopeOptions{File: files[fileName]}
	d.ScanArgs(t, "line", &opts.Line)

	tag, err := Scope(context.Background(), opts)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	if tag == nil {
		return "(none)"
	}
	return fmt.Sprintf("%s %s %d-%d", tag.Type, tag.Name, tag.Line, tag.EndLine)
}
