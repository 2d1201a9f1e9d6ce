// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

const (
	// blockShift determines nodes per block (1 << blockShift).
	blockShift = 10
	blockSize  = 1 << blockShift
	blockMask  = blockSize - 1

	// nilRef marks "no successor" in a packed link word.
	// Valid node indices are always below 1<<32.
	nilRef = ^uint64(0)
)

// MSQueuePool is an unbounded lock-free MPMC queue (Michael-Scott
// algorithm) with pooled, recycled nodes.
//
// Nodes live in grow-only blocks; links and cursors hold node indices
// instead of pointers. A dequeued sentinel is not released to the
// collector but retired through epoch-based reclamation and eventually
// returned to an internal free list, so steady-state operation allocates
// nothing.
//
// Recycling reintroduces the ABA hazard that the collector solves for
// MSQueue: a stale index could be reused for a different node between a
// read and the CAS that compares it. The epoch guard prevents this by
// construction - every operation is pinned for its duration, and a
// retired node re-enters the free list only after the global epoch has
// advanced past every operation that could still hold its index. The
// free list itself is a Treiber stack with a tag-counted top (128-bit
// CAS), which kills the remaining pop/push ABA window.
//
// Capacity grows by whole blocks when the free list runs dry; blocks are
// never returned. Reserved reports the current reservation.
//
// Memory: one pooled slot per node, cache-line padded.
type MSQueuePool[T any] struct {
	_    pad
	head atomix.Uint64 // Index of the sentinel node
	_    pad
	tail atomix.Uint64 // Index at or behind the true last node
	_    pad
	// freeTop is the free-list top: lo=tag (bumped per pop), hi=index.
	freeTop atomix.Uint128
	_       pad
	epoch   atomix.Uint64 // Global reclamation epoch
	_       pad
	guards  [guardSlots]guardRec
	limbos  [guardSlots]limboRec
	blocks  atomic.Pointer[[]*poolBlock[T]]
	reserve atomix.Int64 // Allocated node count
}

type poolBlock[T any] struct {
	nodes [blockSize]poolNode[T]
}

// poolNode is one pooled cell. next doubles as the free-list link while
// the node is unallocated.
type poolNode[T any] struct {
	next  atomix.Uint64
	value T
	_     padShort // Pad to cache line
}

// NewMSQueuePool creates a new empty recycling queue with at least
// prealloc nodes reserved up front (rounded up to whole blocks, minimum
// one block). Panics if prealloc is negative.
func NewMSQueuePool[T any](prealloc int) *MSQueuePool[T] {
	if prealloc < 0 {
		panic("ubq: prealloc must be >= 0")
	}

	nblocks := (prealloc + blockSize - 1) / blockSize
	if nblocks < 1 {
		nblocks = 1
	}

	q := &MSQueuePool[T]{}
	q.freeTop.StoreRelaxed(0, nilRef)

	blocks := make([]*poolBlock[T], 0, nblocks)
	for range nblocks {
		blocks = append(blocks, new(poolBlock[T]))
	}
	q.blocks.Store(&blocks)
	for b := range nblocks {
		q.seedBlock(uint64(b) << blockShift)
	}
	q.reserve.StoreRelaxed(int64(nblocks) * blockSize)

	// Install the sentinel. The free list is non-empty by construction.
	sentinel, _ := q.freePop()
	q.node(sentinel).next.StoreRelaxed(nilRef)
	q.head.StoreRelaxed(sentinel)
	q.tail.StoreRelaxed(sentinel)
	return q
}

// Enqueue adds an element to the queue.
// The pointed-to value is copied into a pooled node before the CAS loop.
// Returns ErrNilElement if elem is nil; otherwise always succeeds.
func (q *MSQueuePool[T]) Enqueue(elem *T) error {
	if elem == nil {
		return ErrNilElement
	}

	slot := q.pin()
	idx := q.alloc()
	n := q.node(idx)
	n.value = *elem
	n.next.StoreRelaxed(nilRef)

	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		tn := q.node(tail)
		next := tn.next.LoadAcquire()

		if tail != q.tail.LoadAcquire() {
			sw.Once()
			continue
		}

		if next == nilRef {
			// Publishes n.value: the release CAS pairs with the
			// acquire load of the link in Dequeue.
			if tn.next.CompareAndSwapAcqRel(nilRef, idx) {
				q.tail.CompareAndSwapAcqRel(tail, idx)
				q.unpin(slot)
				return nil
			}
		} else {
			// Half-finished enqueue observed: help swing tail.
			q.tail.CompareAndSwapAcqRel(tail, next)
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MSQueuePool[T]) Dequeue() (T, error) {
	slot := q.pin()

	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		tail := q.tail.LoadAcquire()
		hn := q.node(head)
		first := hn.next.LoadAcquire()

		if head != q.head.LoadAcquire() {
			sw.Once()
			continue
		}

		if head == tail {
			if first == nilRef {
				q.unpin(slot)
				var zero T
				return zero, ErrWouldBlock
			}
			q.tail.CompareAndSwapAcqRel(tail, first)
			sw.Once()
			continue
		}

		// The epoch pin guarantees first's node cannot be recycled
		// before we unpin, so this read is safe even if the head CAS
		// below fails.
		fn := q.node(first)
		value := fn.value
		if q.head.CompareAndSwapAcqRel(head, first) {
			q.retire(slot, head)
			q.unpin(slot)
			return value, nil
		}
		sw.Once()
	}
}

// Reserved returns the number of nodes currently allocated, including
// free, queued and retired-but-not-yet-recycled nodes. It is an
// observability hook, not a length.
func (q *MSQueuePool[T]) Reserved() int {
	return int(q.reserve.Load())
}

// node resolves a packed index to its pooled cell.
func (q *MSQueuePool[T]) node(idx uint64) *poolNode[T] {
	blocks := *q.blocks.Load()
	return &blocks[idx>>blockShift].nodes[idx&blockMask]
}

// alloc pops a free node, growing the pool when the free list is dry.
func (q *MSQueuePool[T]) alloc() uint64 {
	for {
		if idx, ok := q.freePop(); ok {
			return idx
		}
		q.grow()
	}
}

// grow publishes one more block via copy-on-write on the block table and
// seeds its nodes into the free list. Losing the publication race just
// means another goroutine grew the pool; the loser's block is dropped.
func (q *MSQueuePool[T]) grow() {
	old := q.blocks.Load()
	base := uint64(len(*old)) << blockShift
	next := make([]*poolBlock[T], len(*old), len(*old)+1)
	copy(next, *old)
	next = append(next, new(poolBlock[T]))

	if q.blocks.CompareAndSwap(old, &next) {
		q.seedBlock(base)
		q.reserve.Add(blockSize)
	}
}

// seedBlock pushes the block starting at base onto the free list.
func (q *MSQueuePool[T]) seedBlock(base uint64) {
	for i := uint64(0); i < blockSize; i++ {
		q.freePush(base + i)
	}
}

// freePop removes the top free node. The tag bump on every successful
// pop makes a stale (tag, top) pair fail its CAS, so a node that was
// popped, used and pushed back cannot satisfy an old comparison.
func (q *MSQueuePool[T]) freePop() (uint64, bool) {
	sw := spin.Wait{}
	for {
		tag, top := q.freeTop.LoadAcquire()
		if top == nilRef {
			return 0, false
		}
		next := q.node(top).next.LoadRelaxed()
		if q.freeTop.CompareAndSwapAcqRel(tag, top, tag+1, next) {
			return top, true
		}
		sw.Once()
	}
}

// freePush returns a node to the free list.
func (q *MSQueuePool[T]) freePush(idx uint64) {
	sw := spin.Wait{}
	for {
		tag, top := q.freeTop.LoadAcquire()
		q.node(idx).next.StoreRelaxed(top)
		if q.freeTop.CompareAndSwapAcqRel(tag, top, tag, idx) {
			return
		}
		sw.Once()
	}
}
