// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Epoch-based reclamation for MSQueuePool.
//
// Every Enqueue/Dequeue pins a guard slot for its duration, recording the
// global epoch it runs under. Retired nodes are parked in the retiring
// slot's limbo bucket for the current epoch; the epoch can only advance
// when every pinned operation has caught up to it, so by the time a
// bucket's epoch is three behind the current one, no operation that could
// still hold an index from that era remains in flight. Only then do the
// bucket's nodes re-enter the free list.
//
// Invariants:
//   - a node index obtained inside a pinned operation stays valid (not
//     recycled) until that operation unpins;
//   - recycled storage is never handed out while a stale index to it
//     could still be compared by an in-flight CAS.

const (
	// guardSlots bounds the number of concurrently pinned operations.
	// An operation that finds no free slot spins until one frees; slots
	// are held only for the span of a single non-blocking operation.
	guardSlots = 128

	// epochBuckets rotates limbo lists over three epochs: one being
	// filled, two cooling off.
	epochBuckets = 3

	// retireThreshold is the number of retirements a slot accumulates
	// before it attempts to advance the global epoch.
	retireThreshold = 64
)

// guardRec is one pinnable epoch record. 0 means idle; an active record
// holds epoch+1.
type guardRec struct {
	epoch atomix.Uint64
	_     padShort // Pad to cache line
}

// limboRec is the slot-local retirement state. It is mutated only by the
// goroutine currently pinned on the slot, so its fields need no atomics.
type limboRec struct {
	buckets [epochBuckets]limboBucket
	retired int
}

type limboBucket struct {
	epoch uint64
	idxs  []uint64
}

// pin claims a guard slot and records the current epoch in it. It spins
// when all slots are taken; slots turn over at the rate of individual
// queue operations.
func (q *MSQueuePool[T]) pin() int {
	sw := spin.Wait{}
	for {
		for i := range q.guards {
			g := &q.guards[i]
			if g.epoch.LoadRelaxed() != 0 {
				continue
			}
			e := q.epoch.LoadAcquire()
			if !g.epoch.CompareAndSwapAcqRel(0, e+1) {
				continue
			}
			// Chase the global epoch until the published record is
			// current; an advance that raced the publication would
			// otherwise free nodes this operation may still reach.
			for {
				cur := q.epoch.LoadAcquire()
				if cur == e {
					return i
				}
				g.epoch.StoreRelease(cur + 1)
				e = cur
			}
		}
		sw.Once()
	}
}

// unpin releases the guard slot.
func (q *MSQueuePool[T]) unpin(slot int) {
	q.guards[slot].epoch.StoreRelease(0)
}

// retire parks a detached node in the slot's limbo bucket for the
// current epoch. Must be called while pinned on slot.
func (q *MSQueuePool[T]) retire(slot int, idx uint64) {
	l := &q.limbos[slot]
	e := q.epoch.LoadAcquire()
	b := &l.buckets[e%epochBuckets]

	if b.epoch != e {
		// The bucket last held epoch b.epoch <= e-3: its nodes have
		// cooled for at least two full epochs and can be recycled.
		q.recycleBucket(b)
		b.epoch = e
	}
	b.idxs = append(b.idxs, idx)

	l.retired++
	if l.retired >= retireThreshold {
		l.retired = 0
		q.tryAdvance()
	}
}

// tryAdvance bumps the global epoch if every pinned operation has caught
// up to it. A single lagging slot vetoes the advance; that is the
// reclamation stall EBR accepts in exchange for a pin-only hot path.
func (q *MSQueuePool[T]) tryAdvance() {
	e := q.epoch.LoadAcquire()
	for i := range q.guards {
		ge := q.guards[i].epoch.LoadAcquire()
		if ge != 0 && ge != e+1 {
			return
		}
	}
	q.epoch.CompareAndSwapAcqRel(e, e+1)
}

// recycleBucket clears and frees every node parked in b.
func (q *MSQueuePool[T]) recycleBucket(b *limboBucket) {
	var zero T
	for _, idx := range b.idxs {
		n := q.node(idx)
		n.value = zero
		q.freePush(idx)
	}
	b.idxs = b.idxs[:0]
}
