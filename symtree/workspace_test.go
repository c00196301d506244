package symtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkspaceLifecycle(t *testing.T) {
	ws := NewWorkspace()

	tree, err := ws.Open("a.cpp", nil)
	require.NoError(t, err)
	again, err := ws.Open("a.cpp", nil)
	require.NoError(t, err)
	require.Same(t, tree, again)

	_, err = ws.Open("b.cpp", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"a.cpp", "b.cpp"}, ws.Documents())

	require.NoError(t, ws.Reconcile("a.cpp", sampleTags()))
	require.Equal(t, len(sampleTags()), tree.Len())

	// Trees are independent.
	b, err := ws.Tree("b.cpp")
	require.NoError(t, err)
	require.Zero(t, b.Len())

	tag, err := ws.ScopeAt("a.cpp", 12)
	require.NoError(t, err)
	require.Equal(t, "draw", tag.Name)

	tag, err = ws.ScopeAt("a.cpp", 85)
	require.NoError(t, err)
	require.Nil(t, tag)

	require.NoError(t, ws.Close("a.cpp"))
	require.Equal(t, []string{"b.cpp"}, ws.Documents())
	require.Zero(t, tree.Len())
}

func TestWorkspaceInvalidHandles(t *testing.T) {
	ws := NewWorkspace()

	err := ws.Reconcile("missing.go", nil)
	require.ErrorIs(t, err, ErrInvalidTree)

	_, err = ws.ScopeAt("missing.go", 1)
	require.ErrorIs(t, err, ErrInvalidTree)

	require.ErrorIs(t, ws.Close("missing.go"), ErrInvalidTree)

	tree, err := ws.Open("gone.go", nil)
	require.NoError(t, err)
	require.NoError(t, ws.Close("gone.go"))

	// A handle kept past Close is dead too.
	require.ErrorIs(t, tree.Reconcile(sampleTags()), ErrInvalidTree)
	_, ok := tree.ScopeAt(1)
	require.False(t, ok)
}

func TestWorkspaceWrapsContractViolation(t *testing.T) {
	ws := NewWorkspace()
	tree, err := ws.Open("busy.cpp", nil)
	require.NoError(t, err)

	withReconcileHook(t, func(*Tree) {
		err = ws.Reconcile("busy.cpp", nil)
	})
	require.NoError(t, tree.Reconcile(sampleTags()))
	require.ErrorIs(t, err, ErrContractViolation)
	require.ErrorContains(t, err, "busy.cpp")
}
