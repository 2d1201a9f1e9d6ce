// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ubq provides unbounded lock-free FIFO queue implementations.
//
// The package implements the Michael-Scott non-blocking queue algorithm
// for multi-producer multi-consumer use. Unlike the bounded queues in
// [code.hybscloud.com/lfq], these queues grow on demand: Enqueue never
// reports a full queue and Dequeue never blocks.
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q := ubq.NewMSQueue[Event]()
//	q := ubq.NewMSQueuePool[*Request](4096)
//
// Builder API selects the variant based on hints:
//
//	q := ubq.Build[Event](ubq.New())              // → MSQueue
//	q := ubq.Build[Event](ubq.New().Recycling())  // → MSQueuePool
//	q := ubq.New().BuildPtr()                     // → MSQueuePtr
//
// # Basic Usage
//
// All queues share the same interface for enqueueing and dequeueing:
//
//	q := ubq.NewMSQueue[int]()
//
//	// Enqueue (non-blocking, never full)
//	value := 42
//	if err := q.Enqueue(&value); err != nil {
//	    // Only ErrNilElement is possible - a caller bug
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if ubq.IsWouldBlock(err) {
//	    // Queue is empty - a normal outcome, try again later
//	}
//
// # Queue Variants
//
//	MSQueue[T]     - direct variant; nodes are heap-allocated per Enqueue
//	                 and reclaimed by the garbage collector
//	MSQueuePtr     - unsafe.Pointer payloads for zero-copy handoff
//	MSQueuePool[T] - recycling variant; nodes live in pooled blocks and
//	                 are reused through epoch-based reclamation
//
// MSQueue is the simplest and usually the right choice: the collector
// guarantees a detached node's storage is never reused while any goroutine
// still holds a reference to it, which eliminates the ABA hazard on the
// link compare-and-swap checks for free.
//
// MSQueuePool trades that simplicity for allocation stability: nodes are
// drawn from and returned to an internal free list, so steady-state
// operation allocates nothing. Because recycled storage could be
// reobserved under a stale index, the pool guards every operation with an
// epoch record and delays reuse until no in-flight operation can still
// hold the retired node's index. See [MSQueuePool] for details.
//
// # Ordering Guarantees
//
// Items are dequeued in the order their enqueue's linking compare-and-swap
// succeeded. This is a total order across all producers, not merely a
// per-producer FIFO. Dequeue reports empty only if, at some instant during
// the call, the queue held no items.
//
// # Progress
//
// Enqueue and Dequeue are lock-free: a failed compare-and-swap always
// means another operation made progress, and a thread that stalls at any
// point (including between linking its node and swinging the tail) never
// prevents others from completing - contenders repair the half-finished
// step themselves. No operation acquires a mutex, parks, or sleeps;
// retries spin in user space with a CPU pause. Callers that want backoff
// under sustained emptiness wrap Dequeue externally, e.g. with
// [code.hybscloud.com/iox.Backoff].
//
// # Error Handling
//
// Dequeue on an empty queue returns [ErrWouldBlock], a control flow
// signal sourced from [code.hybscloud.com/iox] for ecosystem consistency.
// Enqueue with a nil element returns [ErrNilElement]; it is a caller
// contract violation, reported before any shared state is touched.
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.Dequeue()
//	    if err == nil {
//	        backoff.Reset()
//	        process(v)
//	        continue
//	    }
//	    if ubq.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err // Unexpected
//	}
//
// # Length and Capacity
//
// The queues intentionally provide neither Len nor Cap. Capacity has no
// meaning for an unbounded queue, and accurate counts in lock-free
// algorithms require expensive cross-core synchronization. Track counts
// in application logic when needed. MSQueuePool exposes
// [MSQueuePool.Reserved] as a coarse observability hook for its node
// reservation, not a length.
//
// # Race Detection
//
// MSQueue and MSQueuePtr synchronize exclusively through sync/atomic
// pointers, which the race detector understands; their tests run clean
// under -race.
//
// MSQueuePool publishes node payloads through acquire-release ordering on
// separate index words, a relationship the race detector cannot track and
// reports as a false positive. Its concurrent tests are skipped when the
// detector is active; correctness there is covered by the stress suite
// without the detector. See the discussion in [code.hybscloud.com/lfq]
// for background.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package ubq
