package datastruct

// List keeps items in insertion order. Removal closes the gap without
// reordering what remains.
type List[T comparable] struct {
	items []T
}

// NewList returns an empty list.
func NewList[T comparable]() *List[T] {
	return &List[T]{}
}

// Add appends item.
func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
}

// Get returns the item at index i and false when i is out of range.
func (l *List[T]) Get(i int) (T, bool) {
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Remove deletes the first item equal to item and reports whether one was found.
func (l *List[T]) Remove(item T) bool {
	for i, v := range l.items {
		if v == item {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the first item matching pred.
func (l *List[T]) Find(pred func(T) bool) (T, bool) {
	for _, v := range l.items {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns a new slice of the items matching pred, in list order.
func (l *List[T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0)
	for _, v := range l.items {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// Items returns a copy of the list contents.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) Size() int     { return len(l.items) }
func (l *List[T]) IsEmpty() bool { return len(l.items) == 0 }
