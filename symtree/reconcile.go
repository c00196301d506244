package symtree

import (
	"fmt"
	"slices"
)

// Reconcile updates the tree in place to reflect tags, the complete and
// unordered tag list of a fresh parse.
//
// Nodes whose tag is still present keep their identity and expansion
// state; their tag and label are replaced if any attribute changed. Nodes
// whose tag disappeared are removed together with their subtree. New tags
// are inserted under the nearest preceding provider of their scope, or
// directly under their category when no provider exists.
//
// Reconcile takes ownership of copies of tags; the caller may reuse the
// slice afterwards.
func (t *Tree) Reconcile(tags []Tag) error {
	if t.closed.Load() {
		return ErrInvalidTree
	}
	if !t.busy.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: reconcile already in progress", ErrContractViolation)
	}
	defer t.release()

	r := newReconciler(t, tags)
	r.prune()
	if reconcileHook != nil {
		reconcileHook(t)
	}
	r.insert()
	r.cleanup()
	t.stats = r.stats
	return nil
}

// reconcileHook runs between the prune and insert passes. Tests use it to
// act on a tree while a Reconcile is in flight.
var reconcileHook func(t *Tree)

// reconciler holds the scratch state of a single Reconcile call.
type reconciler struct {
	tree     *Tree
	layout   *Layout
	tags     []*Tag
	consumed []bool
	byTag    *tagTable
	parents  *parentTable
	provided map[string]struct{}
	flat     []*Node // matched nodes under their category whose scope is provided
	stats    Stats
}

func newReconciler(t *Tree, tags []Tag) *reconciler {
	r := &reconciler{
		tree:     t,
		layout:   t.layout,
		tags:     make([]*Tag, len(tags)),
		consumed: make([]bool, len(tags)),
		byTag:    newTagTable(),
		parents:  newParentTable(),
		provided: make(map[string]struct{}),
	}
	for i := range tags {
		tg := tags[i]
		r.tags[i] = &tg
		r.byTag.insert(&tg, i)
		r.parents.reserve(tg.Scope)
		if name := r.layout.ParentName(&tg); name != "" {
			r.provided[name] = struct{}{}
		}
	}
	return r
}

// prune walks the existing tree top-down. A node is settled before its
// children are visited, so a removed node's descendants are never looked
// at again.
func (r *reconciler) prune() {
	for _, c := range r.tree.categories {
		r.pruneChildren(c)
	}
}

func (r *reconciler) pruneChildren(n *Node) {
	for _, c := range slices.Clone(n.children) {
		if r.settle(c) {
			r.pruneChildren(c)
		}
	}
}

// settle matches n against the new tags. It returns false if n was
// removed.
func (r *reconciler) settle(n *Node) bool {
	e, ok := r.byTag.lookup(n.tag)
	if !ok {
		r.stats.Removed += n.size()
		n.detach()
		return false
	}

	if Equal(n.tag, e.tag) {
		r.stats.Kept++
	} else {
		n.tag = e.tag
		r.tree.refresh(n)
		r.stats.Updated++
	}

	r.parents.register(r.layout.ParentName(e.tag), e.tag.Line, n)
	r.byTag.remove(e)
	r.consumed[e.pos] = true

	if r.flatButProvided(n) {
		r.flat = append(r.flat, n)
	}
	return true
}

// flatButProvided reports whether n sits flat under its category although
// a tag providing its scope exists now.
func (r *reconciler) flatButProvided(n *Node) bool {
	if n.tag.Scope == "" || !n.parent.IsCategory() {
		return false
	}
	_, ok := r.provided[n.tag.Scope]
	return ok
}

// insert creates nodes for the unmatched tags. All of them are registered
// as scope providers before anything is attached, so a child may precede
// its parent in the input.
func (r *reconciler) insert() {
	var fresh []*Node
	for i, tg := range r.tags {
		if r.consumed[i] {
			continue
		}
		n := &Node{id: r.tree.allocID(), tag: tg}
		r.parents.register(r.layout.ParentName(tg), tg.Line, n)
		fresh = append(fresh, n)
	}

	// A flat node only moves if attach would now pick a real parent for
	// it. A provider inside its own subtree keeps it where it is.
	var moved []*Node
	for _, n := range r.flat {
		p := r.parents.find(n.tag.Scope, n.tag.Line)
		if p == nil || n.isAncestorOf(p) {
			continue
		}
		n.detach()
		moved = append(moved, n)
	}

	for _, n := range moved {
		r.attach(n)
		r.stats.Moved++
	}
	for _, n := range fresh {
		r.attach(n)
		r.stats.Added++
	}
}

func (r *reconciler) attach(n *Node) {
	parent := r.tree.categoryFor(n.tag.Type)
	if n.tag.Scope != "" {
		// A provider inside n's own subtree would close a cycle.
		if p := r.parents.find(n.tag.Scope, n.tag.Line); p != nil && !n.isAncestorOf(p) {
			parent = p
		}
	}

	// Only a parent that was empty is opened; others keep the state the
	// user left them in.
	if len(parent.children) == 0 {
		parent.expanded = true
	}
	parent.appendChild(n)
	r.tree.refresh(n)
}

func (r *reconciler) cleanup() {
	for _, c := range r.tree.categories {
		c.hidden = len(c.children) == 0
		r.tree.sortChildren(c)
	}
}
