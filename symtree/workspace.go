package symtree

import (
	"fmt"
	"slices"
	"sync"
)

// Workspace owns the trees of all open documents, keyed by document name.
//
// The map itself is safe for concurrent use. Reconciling one document's
// tree must still be serialized by the caller.
type Workspace struct {
	mu    sync.Mutex
	trees map[string]*Tree
}

// NewWorkspace returns an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{trees: make(map[string]*Tree)}
}

// Open creates the tree for doc. Opening a document twice returns the
// existing tree.
func (w *Workspace) Open(doc string, layout *Layout) (*Tree, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.trees[doc]; ok {
		return t, nil
	}
	t, err := NewTree(layout)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", doc, err)
	}
	w.trees[doc] = t
	return t, nil
}

// Tree returns the tree of an open document.
func (w *Workspace) Tree(doc string) (*Tree, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.trees[doc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTree, doc)
	}
	return t, nil
}

// Reconcile updates the tree of doc with a fresh tag list.
func (w *Workspace) Reconcile(doc string, tags []Tag) error {
	t, err := w.Tree(doc)
	if err != nil {
		return err
	}
	if err := t.Reconcile(tags); err != nil {
		return fmt.Errorf("reconcile %s: %w", doc, err)
	}
	return nil
}

// ScopeAt returns the tag of the innermost scope enclosing line in doc, or
// nil if the line is outside every scope.
func (w *Workspace) ScopeAt(doc string, line int) (*Tag, error) {
	t, err := w.Tree(doc)
	if err != nil {
		return nil, err
	}
	n, ok := t.ScopeAt(line)
	if !ok {
		return nil, nil
	}
	return n.Tag(), nil
}

// Close destroys the tree of doc. Further use of it fails with
// ErrInvalidTree.
func (w *Workspace) Close(doc string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.trees[doc]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidTree, doc)
	}
	t.close()
	delete(w.trees, doc)
	return nil
}

// Documents lists the open documents in lexical order.
func (w *Workspace) Documents() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	docs := make([]string, 0, len(w.trees))
	for doc := range w.trees {
		docs = append(docs, doc)
	}
	slices.Sort(docs)
	return docs
}
