package symtree

// parentTable maps a scope name to the nodes that can act as that scope,
// ordered by declaration line. Only names reserved up front accept
// registrations, so nodes nobody refers to stay out of the table.
type parentTable struct {
	slots map[string]*lineIndex[*Node]
}

func newParentTable() *parentTable {
	return &parentTable{slots: make(map[string]*lineIndex[*Node])}
}

// reserve opens a slot for name. Reserving twice keeps the existing slot.
func (p *parentTable) reserve(name string) {
	if name == "" {
		return
	}
	if _, ok := p.slots[name]; !ok {
		p.slots[name] = nil
	}
}

func (p *parentTable) reserved(name string) bool {
	_, ok := p.slots[name]
	return ok
}

// register records n as a provider of name at line, replacing any node
// already registered at that exact line. Unreserved names are ignored.
func (p *parentTable) register(name string, line int, n *Node) {
	idx, ok := p.slots[name]
	if !ok {
		return
	}
	if idx == nil {
		idx = newLineIndex[*Node]()
		p.slots[name] = idx
	}
	idx.set(line, n)
}

// find returns the provider of name declared closest before line, or the
// nearest one overall when all of them come later.
func (p *parentTable) find(name string, line int) *Node {
	idx := p.slots[name]
	if idx == nil {
		return nil
	}
	b, ok := idx.nearest(line)
	if !ok {
		return nil
	}
	return b.vals[0]
}
