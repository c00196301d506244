package symtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineIndexNearest(t *testing.T) {
	idx := newLineIndex[string]()
	idx.set(10, "ten")
	idx.set(50, "fifty")
	idx.set(100, "hundred")

	tests := []struct {
		name string
		line int
		want string
	}{
		{"between_candidates", 60, "fifty"},
		{"exact_hit", 50, "fifty"},
		{"before_all_candidates", 5, "ten"},
		{"after_all_candidates", 1000, "hundred"},
		{"just_before_second", 49, "ten"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, ok := idx.nearest(tc.line)
			require.True(t, ok)
			require.Equal(t, tc.want, b.vals[0])
		})
	}
}

func TestLineIndexPrecedingHasNoFallback(t *testing.T) {
	idx := newLineIndex[int]()
	idx.set(10, 1)

	_, ok := idx.preceding(9)
	require.False(t, ok)

	b, ok := idx.preceding(10)
	require.True(t, ok)
	require.Equal(t, 10, b.line)
}

func TestLineIndexEmpty(t *testing.T) {
	idx := newLineIndex[int]()
	_, ok := idx.nearest(1)
	require.False(t, ok)
	require.False(t, idx.remove(1, func(int) bool { return true }))
}

func TestLineIndexSetReplaces(t *testing.T) {
	idx := newLineIndex[string]()
	idx.set(3, "first")
	idx.set(3, "second")

	b, ok := idx.nearest(3)
	require.True(t, ok)
	require.Equal(t, []string{"second"}, b.vals)
	require.Equal(t, 1, idx.len())
}

func TestLineIndexAddKeepsOrderAndRemoveDropsBucket(t *testing.T) {
	idx := newLineIndex[string]()
	idx.add(3, "a")
	idx.add(3, "b")
	idx.add(7, "c")

	b, _ := idx.nearest(4)
	require.Equal(t, []string{"a", "b"}, b.vals)

	require.True(t, idx.remove(3, func(v string) bool { return v == "a" }))
	b, _ = idx.nearest(4)
	require.Equal(t, []string{"b"}, b.vals)

	require.True(t, idx.remove(3, func(v string) bool { return v == "b" }))
	require.Equal(t, 1, idx.len())

	// Line 3 is gone, so the search falls forward to 7.
	b, _ = idx.nearest(4)
	require.Equal(t, 7, b.line)

	require.False(t, idx.remove(3, func(string) bool { return true }))
}
