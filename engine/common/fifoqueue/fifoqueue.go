package fifoqueue

import (
	"fmt"
	mathbits "math/bits"
	"sync"

	"github.com/ef-ds/deque"
)

// FifoQueue implements a FIFO queue with max capacity and length observer.
// Elements that exceed the queue's max capacity are rejected by Push.
// By default, the theoretical capacity equals to the largest `int` value
// (platform dependent). Capacity can be set at construction time via the
// option `WithCapacity`.
// Each time the queue's length changes, the QueueLengthObserver is called
// with the new length. By default, the QueueLengthObserver is a NoOp.
// A single QueueLengthObserver can be set at construction time via the
// option `WithLengthObserver`.
//
// The queue is concurrency safe. The QueueLengthObserver must be non-blocking.
type FifoQueue[T any] struct {
	mu             sync.RWMutex
	queue          deque.Deque
	maxCapacity    int
	lengthObserver QueueLengthObserver
}

// ConstructorOption is an optional argument for the `NewFifoQueue`
// constructor to specify properties of the FifoQueue.
type ConstructorOption func(*options) error

// QueueLengthObserver is a callback that can optionally provided
// to the `NewFifoQueue` constructor (via `WithLengthObserver` option).
type QueueLengthObserver func(int)

type options struct {
	maxCapacity    int
	lengthObserver QueueLengthObserver
}

// WithCapacity is a constructor option for NewFifoQueue. It specifies the
// max number of elements the queue can hold. By default, the theoretical
// capacity equals to the largest `int` value (platform dependent).
// The WithCapacity option overrides the previous value (default value or
// value specified by previous option).
func WithCapacity(capacity int) ConstructorOption {
	return func(opts *options) error {
		if capacity < 1 {
			return fmt.Errorf("capacity for Fifo queue must be positive")
		}
		opts.maxCapacity = capacity
		return nil
	}
}

// WithLengthObserver is a constructor option for NewFifoQueue. Each time the
// queue's length changes, the queue calls the provided callback with the new
// length. By default, the QueueLengthObserver is a NoOp.
// Caution: the QueueLengthObserver callback must be non-blocking
func WithLengthObserver(callback QueueLengthObserver) ConstructorOption {
	return func(opts *options) error {
		if callback == nil {
			return fmt.Errorf("nil is not a valid QueueLengthObserver")
		}
		opts.lengthObserver = callback
		return nil
	}
}

// NewFifoQueue is the constructor for FifoQueue.
// No errors are expected during normal operations.
func NewFifoQueue[T any](opts ...ConstructorOption) (*FifoQueue[T], error) {
	// maximum value for platform-specific int: https://yourbasic.org/golang/max-min-int-uint/
	maxInt := 1<<(mathbits.UintSize-1) - 1

	o := &options{
		maxCapacity:    maxInt,
		lengthObserver: func(int) { /* noop */ },
	}
	for _, opt := range opts {
		err := opt(o)
		if err != nil {
			return nil, fmt.Errorf("failed to apply constructor option to fifoqueue queue: %w", err)
		}
	}
	return &FifoQueue[T]{
		maxCapacity:    o.maxCapacity,
		lengthObserver: o.lengthObserver,
	}, nil
}

// Push appends the given value to the tail of the queue.
// Returns false if the queue is at capacity, in which case the element is not added.
func (q *FifoQueue[T]) Push(element T) bool {
	length, pushed := q.push(element)

	if pushed {
		q.lengthObserver(length)
	}
	return pushed
}

func (q *FifoQueue[T]) push(element T) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	length := q.queue.Len()
	if length < q.maxCapacity {
		q.queue.PushBack(element)
		return length + 1, true
	}
	return length, false
}

// Front peeks the element at the head of the queue (without removing the head).
func (q *FifoQueue[T]) Front() (T, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	element, ok := q.queue.Front()
	if !ok {
		var empty T
		return empty, false
	}
	return element.(T), true
}

// Pop removes and returns the queue's head element.
// If the queue is empty, (zero value, false) is returned.
func (q *FifoQueue[T]) Pop() (T, bool) {
	element, length, ok := q.pop()
	if !ok {
		var empty T
		return empty, false
	}

	q.lengthObserver(length)
	return element, true
}

func (q *FifoQueue[T]) pop() (T, int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	element, ok := q.queue.PopFront()
	if !ok {
		var empty T
		return empty, 0, false
	}
	return element.(T), q.queue.Len(), true
}

// Len returns the current length of the queue.
func (q *FifoQueue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.queue.Len()
}

// Capacity returns the maximum number of elements the queue holds.
func (q *FifoQueue[T]) Capacity() int {
	return q.maxCapacity
}
