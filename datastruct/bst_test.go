package datastruct

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intTree(values ...int) *Tree[int] {
	t := NewTree(cmp.Compare[int])
	for _, v := range values {
		t.Insert(v)
	}
	return t
}

func inOrder[T any](t *Tree[T]) []T {
	var out []T
	t.InOrder(func(v T) { out = append(out, v) })
	return out
}

func TestTreeInsertAndTraverse(t *testing.T) {
	tree := intTree(50, 30, 70, 20, 40, 60, 80)

	assert.Equal(t, []int{20, 30, 40, 50, 60, 70, 80}, inOrder(tree))
	assert.Equal(t, 7, tree.Len())
	assert.Equal(t, 3, tree.Height())
}

func TestTreeDuplicateInsertIsDropped(t *testing.T) {
	type entry struct {
		key  string
		note string
	}
	tree := NewTree(func(a, b entry) int { return cmp.Compare(a.key, b.key) })
	tree.Insert(entry{"dune", "first"})
	tree.Insert(entry{"dune", "second"})

	got := inOrder(tree)
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].note)
}

func TestTreeSearch(t *testing.T) {
	tree := intTree(8, 3, 10, 1, 6, 14)

	for _, v := range []int{8, 3, 10, 1, 6, 14} {
		assert.True(t, tree.Search(v), "expected %d to be found", v)
	}
	assert.False(t, tree.Search(7))
	assert.False(t, NewTree(cmp.Compare[int]).Search(1))
}

func TestTreeDelete(t *testing.T) {
	tests := []struct {
		name   string
		start  []int
		delete int
		want   []int
	}{
		{"leaf", []int{50, 30, 70, 20}, 20, []int{30, 50, 70}},
		{"one child", []int{50, 30, 70, 20}, 30, []int{20, 50, 70}},
		{"two children", []int{50, 30, 70, 60, 80}, 70, []int{30, 50, 60, 80}},
		{"root", []int{50, 30, 70, 20, 40, 60, 80}, 50, []int{20, 30, 40, 60, 70, 80}},
		{"missing", []int{50, 30}, 99, []int{30, 50}},
		{"empty", nil, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := intTree(tt.start...)
			tree.Delete(tt.delete)
			assert.Equal(t, tt.want, inOrder(tree))
			assert.Equal(t, len(tt.want), tree.Len())
			assert.False(t, tree.Search(tt.delete))
		})
	}
}

func TestTreeDeleteRootPromotesSuccessor(t *testing.T) {
	tree := intTree(50, 30, 70, 60, 80, 65)
	tree.Delete(50)

	require.NotNil(t, tree.root)
	assert.Equal(t, 60, tree.root.value)
	assert.Equal(t, []int{30, 60, 65, 70, 80}, inOrder(tree))
}

func TestTreeStaysUnbalanced(t *testing.T) {
	tree := NewTree(cmp.Compare[int])
	for i := 0; i < 500; i++ {
		tree.Insert(i)
	}

	assert.Equal(t, 500, tree.Height())
	got := inOrder(tree)
	require.Len(t, got, 500)
	assert.Equal(t, 0, got[0])
	assert.Equal(t, 499, got[499])
}
