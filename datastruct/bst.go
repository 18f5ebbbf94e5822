// Package datastruct holds the small containers the library stores are built on:
// an unbalanced binary search tree, an insertion-ordered list and a FIFO queue.
package datastruct

// Tree is a plain binary search tree ordered by cmp. It never rebalances, so
// sorted input degrades it to a linked list.
type Tree[T any] struct {
	root *node[T]
	cmp  func(a, b T) int
	size int
}

type node[T any] struct {
	value       T
	left, right *node[T]
}

// NewTree returns an empty tree ordered by cmp. cmp must be a total order and
// return <0, 0 or >0 like strings.Compare.
func NewTree[T any](cmp func(a, b T) int) *Tree[T] {
	return &Tree[T]{cmp: cmp}
}

// Insert stores item. An item comparing equal to one already stored is
// dropped.
func (t *Tree[T]) Insert(item T) {
	link := &t.root
	for *link != nil {
		c := t.cmp(item, (*link).value)
		switch {
		case c < 0:
			link = &(*link).left
		case c > 0:
			link = &(*link).right
		default:
			return
		}
	}
	*link = &node[T]{value: item}
	t.size++
}

// Search reports whether an item comparing equal to item is stored.
func (t *Tree[T]) Search(item T) bool {
	n := t.root
	for n != nil {
		c := t.cmp(item, n.value)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return true
		}
	}
	return false
}

// Delete removes the item comparing equal to item. Missing items are ignored.
// A node with two children takes the value of its in-order successor, which is
// then removed from the right subtree.
func (t *Tree[T]) Delete(item T) {
	var removed bool
	t.root, removed = t.deleteRec(t.root, item)
	if removed {
		t.size--
	}
}

func (t *Tree[T]) deleteRec(n *node[T], item T) (*node[T], bool) {
	if n == nil {
		return nil, false
	}
	var removed bool
	c := t.cmp(item, n.value)
	switch {
	case c < 0:
		n.left, removed = t.deleteRec(n.left, item)
		return n, removed
	case c > 0:
		n.right, removed = t.deleteRec(n.right, item)
		return n, removed
	}

	if n.left == nil {
		return n.right, true
	}
	if n.right == nil {
		return n.left, true
	}
	successor := n.right
	for successor.left != nil {
		successor = successor.left
	}
	n.value = successor.value
	n.right, _ = t.deleteRec(n.right, successor.value)
	return n, true
}

// InOrder calls visit for every item in ascending order. visit must not
// modify the tree.
func (t *Tree[T]) InOrder(visit func(T)) {
	// Iterative so a degenerate tree cannot exhaust the stack.
	var stack []*node[T]
	n := t.root
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, n)
			n = n.left
		}
		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n.value)
		n = n.right
	}
}

// Len returns the number of stored items.
func (t *Tree[T]) Len() int { return t.size }

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[T]) Height() int {
	type frame struct {
		n     *node[T]
		depth int
	}
	if t.root == nil {
		return 0
	}
	height := 0
	stack := []frame{{t.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > height {
			height = f.depth
		}
		if f.n.left != nil {
			stack = append(stack, frame{f.n.left, f.depth + 1})
		}
		if f.n.right != nil {
			stack = append(stack, frame{f.n.right, f.depth + 1})
		}
	}
	return height
}
