package symtree

import (
	"slices"

	"github.com/google/btree"
)

// lineBucket holds every value registered at one source line, in
// registration order.
type lineBucket[V any] struct {
	line int
	vals []V
}

// lineIndex is an ordered line -> values map supporting the
// nearest-preceding-line search used by both lookup tables and ScopeAt.
type lineIndex[V any] struct {
	tree *btree.BTreeG[*lineBucket[V]]
}

func newLineIndex[V any]() *lineIndex[V] {
	return &lineIndex[V]{
		tree: btree.NewG(8, func(a, b *lineBucket[V]) bool {
			return a.line < b.line
		}),
	}
}

// set stores v as the only value at line.
func (x *lineIndex[V]) set(line int, v V) {
	x.tree.ReplaceOrInsert(&lineBucket[V]{line: line, vals: []V{v}})
}

// add appends v to the values at line.
func (x *lineIndex[V]) add(line int, v V) {
	if b, ok := x.tree.Get(&lineBucket[V]{line: line}); ok {
		b.vals = append(b.vals, v)
		return
	}
	x.tree.ReplaceOrInsert(&lineBucket[V]{line: line, vals: []V{v}})
}

// preceding returns the bucket with the greatest line <= line.
func (x *lineIndex[V]) preceding(line int) (*lineBucket[V], bool) {
	var found *lineBucket[V]
	x.tree.DescendLessOrEqual(&lineBucket[V]{line: line}, func(b *lineBucket[V]) bool {
		found = b
		return false
	})
	return found, found != nil
}

// nearest is preceding, falling back to the globally closest bucket when
// every entry lies after line. With nothing at or before line, the closest
// entry by absolute distance is the smallest one.
func (x *lineIndex[V]) nearest(line int) (*lineBucket[V], bool) {
	if b, ok := x.preceding(line); ok {
		return b, true
	}
	return x.tree.Min()
}

// remove deletes the first value at line accepted by match. Empty buckets
// are dropped.
func (x *lineIndex[V]) remove(line int, match func(V) bool) bool {
	b, ok := x.tree.Get(&lineBucket[V]{line: line})
	if !ok {
		return false
	}
	i := slices.IndexFunc(b.vals, match)
	if i < 0 {
		return false
	}
	b.vals = slices.Delete(b.vals, i, i+1)
	if len(b.vals) == 0 {
		x.tree.Delete(b)
	}
	return true
}

func (x *lineIndex[V]) len() int {
	return x.tree.Len()
}
