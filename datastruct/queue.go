package datastruct

import "errors"

// ErrEmptyQueue is returned by Dequeue and Peek on an empty queue.
var ErrEmptyQueue = errors.New("queue is empty")

// Queue is a FIFO queue. It offers no removal other than from the head;
// callers drop an arbitrary entry by draining into a fresh queue.
type Queue[T any] struct {
	items []T
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{items: make([]T, 0)}
}

// Enqueue appends item to the tail.
func (q *Queue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Dequeue removes and returns the head.
func (q *Queue[T]) Dequeue() (T, error) {
	var zero T
	if len(q.items) == 0 {
		return zero, ErrEmptyQueue
	}
	head := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return head, nil
}

// Peek returns the head without removing it.
func (q *Queue[T]) Peek() (T, error) {
	if len(q.items) == 0 {
		var zero T
		return zero, ErrEmptyQueue
	}
	return q.items[0], nil
}

func (q *Queue[T]) IsEmpty() bool { return len(q.items) == 0 }
func (q *Queue[T]) Len() int      { return len(q.items) }
