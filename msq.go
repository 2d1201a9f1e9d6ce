// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// MSQueue is an unbounded lock-free MPMC queue (Michael-Scott algorithm).
//
// The queue is a singly-linked chain of nodes with two atomic cursors.
// head always references an already-consumed node (the sentinel); the
// first live item, if any, is head's successor. tail references a node at
// or behind the true last node, never ahead of it. Both cursors and every
// successor link are mutated exclusively through compare-and-swap; there
// is no lock anywhere in the structure.
//
// Contention is resolved by retry-and-help: an operation that observes a
// half-finished enqueue (node linked, tail not yet swung) swings the tail
// itself before retrying, so global progress never depends on the
// original producer resuming. A failed CAS always implies another
// operation succeeded, which makes the retry loops lock-free; they are
// not starvation-free against an unbounded number of competitors.
//
// Detached nodes are reclaimed by the garbage collector. The collector
// also provides ABA safety: node storage is never reused while any
// goroutine still holds a reference that could reach a CAS, so pointer
// equality checks cannot be fooled. Use MSQueue unless steady-state
// allocation pressure matters; then see MSQueuePool.
//
// Memory: one heap node per queued item, plus the sentinel.
type MSQueue[T any] struct {
	_    pad
	head atomic.Pointer[node[T]]
	_    pad
	tail atomic.Pointer[node[T]]
	_    pad

	// noSwing disables the best-effort tail swing after a successful
	// link. Correctness must not depend on the swing; tests set this to
	// prove it. Liveness still holds because every operation that
	// observes the lagging tail repairs it.
	noSwing bool
}

// node is one cell of the chain: an immutable payload and an atomically
// mutable successor link. The typed nil of atomic.Pointer is the "no
// successor yet" marker.
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// NewMSQueue creates a new empty queue.
// The sentinel node is allocated here and lives for the queue's lifetime.
func NewMSQueue[T any]() *MSQueue[T] {
	q := &MSQueue[T]{}
	sentinel := &node[T]{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Enqueue adds an element to the queue.
// The pointed-to value is copied into a fresh node before the CAS loop.
// Returns ErrNilElement if elem is nil; otherwise always succeeds.
func (q *MSQueue[T]) Enqueue(elem *T) error {
	if elem == nil {
		return ErrNilElement
	}
	n := &node[T]{value: *elem}

	sw := spin.Wait{}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()

		// Consistency guard: tail and next must belong to the same
		// snapshot, otherwise the pair tells us nothing.
		if tail != q.tail.Load() {
			sw.Once()
			continue
		}

		if next == nil {
			// tail is the true last node: link after it.
			if tail.next.CompareAndSwap(nil, n) {
				// Best-effort swing; a failure means someone already
				// helped past tail, which is fine.
				if !q.noSwing {
					q.tail.CompareAndSwap(tail, n)
				}
				return nil
			}
		} else {
			// Another producer linked a node but has not swung tail yet.
			// Help it forward, then retry.
			q.tail.CompareAndSwap(tail, next)
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MSQueue[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		first := head.next.Load()

		// Consistency guard against an interleaved head swing.
		if head != q.head.Load() {
			sw.Once()
			continue
		}

		if head == tail {
			if first == nil {
				// Genuinely empty at this instant.
				var zero T
				return zero, ErrWouldBlock
			}
			// An enqueue is mid-flight: node linked, tail lagging.
			// Help swing tail, then retry.
			q.tail.CompareAndSwap(tail, first)
			sw.Once()
			continue
		}

		// Capture before the CAS: after head moves, first becomes the
		// new sentinel and a later dequeuer may race on it.
		value := first.value
		if q.head.CompareAndSwap(head, first) {
			// The old sentinel is now unreachable from the queue; the
			// collector reclaims it once no goroutine references it.
			// Its successor link is deliberately left intact: clearing
			// it would let a stalled producer that read next==nil
			// earlier link onto a dead chain.
			return value, nil
		}
		sw.Once()
	}
}
