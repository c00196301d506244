package symtree

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
)

var (
	// ErrInvalidTree is returned for trees that were never opened or have
	// already been closed.
	ErrInvalidTree = errors.New("invalid tree handle")

	// ErrContractViolation is returned when the single-reconcile-in-flight
	// contract is broken.
	ErrContractViolation = errors.New("contract violation")
)

// SortMode orders siblings in the tree.
type SortMode int

const (
	SortByName SortMode = iota
	SortByLine
)

func (m SortMode) String() string {
	switch m {
	case SortByName:
		return "name"
	case SortByLine:
		return "line"
	}
	return fmt.Sprintf("SortMode(%d)", int(m))
}

// ParseSortMode accepts "name" or "line".
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(s) {
	case "", "name":
		return SortByName, nil
	case "line":
		return SortByLine, nil
	}
	return SortByName, fmt.Errorf("unknown sort mode %q", s)
}

// Stats summarises what one Reconcile call did.
type Stats struct {
	Kept    int `json:"kept"`
	Updated int `json:"updated"`
	Moved   int `json:"moved"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Changed reports whether the call touched the tree at all.
func (s Stats) Changed() bool {
	return s.Updated+s.Moved+s.Added+s.Removed > 0
}

// Node is an entry of the symbol tree: either a category or a tag.
//
// Nodes are owned by their Tree. Everything returned by the accessors is
// read-only to callers.
type Node struct {
	id       uint64
	tag      *Tag
	name     string // category name, empty for tag nodes
	label    string
	tooltip  string
	parent   *Node
	children []*Node
	expanded bool
	hidden   bool
}

// ID is unique within the owning tree and stable for the node's lifetime.
func (n *Node) ID() uint64 { return n.id }

// Tag returns the node's tag, or nil for a category.
func (n *Node) Tag() *Tag { return n.tag }

// IsCategory reports whether n is a top-level group.
func (n *Node) IsCategory() bool { return n.tag == nil }

func (n *Node) Label() string   { return n.label }
func (n *Node) Tooltip() string { return n.tooltip }
func (n *Node) Parent() *Node   { return n.parent }

// Children must not be modified by the caller.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) Expanded() bool { return n.expanded }

// SetExpanded records the UI's expand/collapse state. It survives
// reconciliation as long as the node does.
func (n *Node) SetExpanded(v bool) { n.expanded = v }

// Hidden is true for categories without children.
func (n *Node) Hidden() bool { return n.hidden }

// Depth is 0 for categories, 1 for their direct children and so on.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Category returns the top-level group n lives in.
func (n *Node) Category() *Node {
	c := n
	for c.parent != nil {
		c = c.parent
	}
	return c
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// isAncestorOf reports whether n appears on c's parent chain (or is c).
func (n *Node) isAncestorOf(c *Node) bool {
	for p := c; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) size() int {
	s := 1
	for _, c := range n.children {
		s += c.size()
	}
	return s
}

// Tree is the persistent symbol tree of one document.
type Tree struct {
	layout     *Layout
	categories []*Node
	byType     map[TagType]*Node
	other      *Node
	sort       SortMode
	nextID     uint64
	stats      Stats
	busy       atomic.Bool
	closed     atomic.Bool
}

// NewTree creates an empty tree for layout. A nil layout means
// DefaultLayout.
func NewTree(layout *Layout) (*Tree, error) {
	if layout == nil {
		layout = DefaultLayout
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	t := &Tree{
		layout: layout,
		byType: make(map[TagType]*Node),
	}
	for _, g := range layout.Groups {
		c := t.newCategory(g.Name)
		if g.Name == OtherGroup {
			t.other = c
		}
		for bit := TagType(1); bit <= TypeOther; bit <<= 1 {
			if g.Types&bit == 0 {
				continue
			}
			if _, taken := t.byType[bit]; !taken {
				t.byType[bit] = c
			}
		}
	}
	if t.other == nil {
		t.other = t.newCategory(OtherGroup)
	}
	return t, nil
}

func (t *Tree) newCategory(name string) *Node {
	c := &Node{id: t.allocID(), name: name, label: name, hidden: true}
	t.categories = append(t.categories, c)
	return c
}

func (t *Tree) allocID() uint64 {
	t.nextID++
	return t.nextID
}

// Layout returns the layout the tree was created with.
func (t *Tree) Layout() *Layout { return t.layout }

// Categories returns the visible categories in layout order.
func (t *Tree) Categories() []*Node {
	var out []*Node
	for _, c := range t.categories {
		if !c.hidden {
			out = append(out, c)
		}
	}
	return out
}

// AllCategories includes hidden ones.
func (t *Tree) AllCategories() []*Node {
	return slices.Clone(t.categories)
}

// Category looks a category up by name.
func (t *Tree) Category(name string) (*Node, bool) {
	for _, c := range t.categories {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// categoryFor returns the group a tag of type typ is filed under.
func (t *Tree) categoryFor(typ TagType) *Node {
	if c, ok := t.byType[typ]; ok {
		return c
	}
	return t.other
}

// Walk visits visible nodes depth-first in display order. Returning false
// from fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var visit func(n *Node)
	visit = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	for _, c := range t.Categories() {
		visit(c)
	}
}

// Len counts tag nodes.
func (t *Tree) Len() int {
	total := 0
	for _, c := range t.categories {
		total += c.size() - 1
	}
	return total
}

// LastStats describes the most recent Reconcile call.
func (t *Tree) LastStats() Stats { return t.stats }

// SortMode returns the current sibling order.
func (t *Tree) SortMode() SortMode { return t.sort }

// SetSortMode reorders all siblings. Nodes are moved, never recreated.
func (t *Tree) SetSortMode(m SortMode) {
	t.sort = m
	for _, c := range t.categories {
		t.sortChildren(c)
	}
}

func (t *Tree) sortChildren(n *Node) {
	cmp := compareByName
	if t.sort == SortByLine {
		cmp = compareByLine
	}
	slices.SortStableFunc(n.children, cmp)
	for _, c := range n.children {
		t.sortChildren(c)
	}
}

func compareByName(a, b *Node) int {
	if c := strings.Compare(strings.ToLower(a.tag.Name), strings.ToLower(b.tag.Name)); c != 0 {
		return c
	}
	return a.tag.Line - b.tag.Line
}

func compareByLine(a, b *Node) int {
	if d := a.tag.Line - b.tag.Line; d != 0 {
		return d
	}
	return strings.Compare(strings.ToLower(a.tag.Name), strings.ToLower(b.tag.Name))
}

// refresh recomputes the display text of a tag node for its current
// position: the scope prefix is only shown when the node is not nested.
func (t *Tree) refresh(n *Node) {
	flat := n.parent == nil || n.parent.IsCategory()
	n.label = t.layout.Label(n.tag, flat)
	n.tooltip = t.layout.Tooltip(n.tag)
}

// close marks the tree dead and drops its nodes. If a Reconcile is in
// flight, that call drops them when it finishes.
func (t *Tree) close() {
	t.closed.Store(true)
	if t.busy.CompareAndSwap(false, true) {
		t.clear()
		t.busy.Store(false)
	}
}

// release ends a Reconcile. A close that raced with it is completed here.
func (t *Tree) release() {
	t.busy.Store(false)
	if t.closed.Load() && t.busy.CompareAndSwap(false, true) {
		t.clear()
		t.busy.Store(false)
	}
}

func (t *Tree) clear() {
	for _, c := range t.categories {
		c.children = nil
		c.hidden = true
	}
}
