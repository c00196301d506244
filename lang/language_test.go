package lang

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	require.Equal(t, []string{"go", "python"}, List())

	require.Equal(t, "go", Get("go").Name())
	require.Nil(t, Get("cobol"))

	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"pkg/Thing.GO", "go"},
		{"tool.py", "python"},
		{"stubs.pyi", "python"},
		{"README.md", ""},
		{"Makefile", ""},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			l := ByExtension(filepath.Ext(tc.path))
			if tc.want == "" {
				require.Nil(t, l)
				return
			}
			require.NotNil(t, l)
			require.Equal(t, tc.want, l.Name())
		})
	}
}

func TestLayoutsAreValid(t *testing.T) {
	for _, name := range List() {
		l := Get(name)
		require.NoError(t, l.Layout().Validate(), name)
		require.NotEmpty(t, l.TagsQuery(), name)
		require.NotNil(t, l.TreeSitterLang(), name)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "(a int, b string)", CollapseWhitespace("(a int,\n\t b   string)"))
	require.Equal(t, "", CollapseWhitespace("  \n "))
}
