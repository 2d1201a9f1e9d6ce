// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/spin"
)

// MSQueuePtr is an unbounded lock-free MPMC queue for unsafe.Pointer
// values (Michael-Scott algorithm).
//
// The payload is passed through without copying, enabling zero-copy
// handoff of objects between goroutines. Ownership transfers from the
// producer to whichever consumer dequeues the pointer.
//
// The algorithm and guarantees are identical to MSQueue; see its
// documentation. Nodes are reclaimed by the garbage collector.
type MSQueuePtr struct {
	_    pad
	head atomic.Pointer[ptrNode]
	_    pad
	tail atomic.Pointer[ptrNode]
	_    pad
}

type ptrNode struct {
	value unsafe.Pointer
	next  atomic.Pointer[ptrNode]
}

// NewMSQueuePtr creates a new empty queue for unsafe.Pointer values.
func NewMSQueuePtr() *MSQueuePtr {
	q := &MSQueuePtr{}
	sentinel := &ptrNode{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Enqueue adds a pointer to the queue.
// Returns ErrNilElement if elem is nil; otherwise always succeeds.
func (q *MSQueuePtr) Enqueue(elem unsafe.Pointer) error {
	if elem == nil {
		return ErrNilElement
	}
	n := &ptrNode{value: elem}

	sw := spin.Wait{}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()

		if tail != q.tail.Load() {
			sw.Once()
			continue
		}

		if next == nil {
			if tail.next.CompareAndSwap(nil, n) {
				q.tail.CompareAndSwap(tail, n)
				return nil
			}
		} else {
			q.tail.CompareAndSwap(tail, next)
		}
		sw.Once()
	}
}

// Dequeue removes and returns a pointer from the queue.
// Returns (nil, ErrWouldBlock) if the queue is empty.
func (q *MSQueuePtr) Dequeue() (unsafe.Pointer, error) {
	sw := spin.Wait{}
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		first := head.next.Load()

		if head != q.head.Load() {
			sw.Once()
			continue
		}

		if head == tail {
			if first == nil {
				return nil, ErrWouldBlock
			}
			q.tail.CompareAndSwap(tail, first)
			sw.Once()
			continue
		}

		value := first.value
		if q.head.CompareAndSwap(head, first) {
			return value, nil
		}
		sw.Once()
	}
}
