package symtree

// tagEntry is a new tag together with its position in the input list.
type tagEntry struct {
	tag *Tag
	pos int
}

// tagTable indexes the new tags by identity and line so nodes of the old
// tree can find their counterpart even after small line shifts.
type tagTable struct {
	byIdentity map[identity]*lineIndex[tagEntry]
}

func newTagTable() *tagTable {
	return &tagTable{byIdentity: make(map[identity]*lineIndex[tagEntry])}
}

// insert adds t at position pos. Duplicates at the same line are kept in
// insertion order.
func (tt *tagTable) insert(t *Tag, pos int) {
	key := t.identity()
	idx, ok := tt.byIdentity[key]
	if !ok {
		idx = newLineIndex[tagEntry]()
		tt.byIdentity[key] = idx
	}
	idx.add(t.Line, tagEntry{tag: t, pos: pos})
}

// lookup finds the new tag matching t, preferring the closest line at or
// before t.Line.
func (tt *tagTable) lookup(t *Tag) (tagEntry, bool) {
	idx, ok := tt.byIdentity[t.identity()]
	if !ok {
		return tagEntry{}, false
	}
	b, ok := idx.nearest(t.Line)
	if !ok {
		return tagEntry{}, false
	}
	return b.vals[0], true
}

// remove drops exactly the entry e. Missing entries are ignored.
func (tt *tagTable) remove(e tagEntry) {
	key := e.tag.identity()
	idx, ok := tt.byIdentity[key]
	if !ok {
		return
	}
	idx.remove(e.tag.Line, func(v tagEntry) bool { return v.pos == e.pos })
	if idx.len() == 0 {
		delete(tt.byIdentity, key)
	}
}
