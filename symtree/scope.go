package symtree

// ScopeAt returns the node of the innermost scope enclosing line: the
// scope-type tag declared nearest before or at line whose end (when known)
// is not before line. Ties at the same line go to the deeper node.
func (t *Tree) ScopeAt(line int) (*Node, bool) {
	if t.closed.Load() || line < 1 {
		return nil, false
	}

	idx := newLineIndex[*Node]()
	t.Walk(func(n *Node) bool {
		tg := n.tag
		if tg == nil || tg.Type&t.layout.ScopeTypes == 0 {
			return true
		}
		if tg.Line > line || (tg.EndLine != 0 && tg.EndLine < line) {
			return true
		}
		idx.add(tg.Line, n)
		return true
	})

	b, ok := idx.preceding(line)
	if !ok {
		return nil, false
	}
	best := b.vals[0]
	for _, n := range b.vals[1:] {
		if n.Depth() > best.Depth() {
			best = n
		}
	}
	return best, true
}
