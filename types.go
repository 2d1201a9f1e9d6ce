// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq

import "unsafe"

// Queue is the combined producer-consumer interface for an unbounded
// FIFO queue.
//
// Queue provides non-blocking Enqueue and Dequeue operations. Enqueue
// always succeeds for a valid element; Dequeue returns ErrWouldBlock
// when the queue is empty.
//
// The interface intentionally excludes length and capacity. Capacity has
// no meaning for an unbounded queue, and accurate counts in lock-free
// algorithms require expensive cross-core synchronization. Track counts
// in application logic when needed.
//
// Example:
//
//	q := ubq.NewMSQueue[int]()
//
//	// Enqueue
//	val := 42
//	_ = q.Enqueue(&val)
//
//	// Dequeue
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
}

// Producer is the interface for enqueueing elements.
//
// Producer provides non-blocking enqueue operations. The element is
// passed by pointer to avoid copying large structs. The queue stores a
// copy of the pointed-to value, so the original can be modified after
// Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// The element is copied into a queue node.
	// Returns nil on success, ErrNilElement if elem is nil.
	// The queue is unbounded: Enqueue never reports a full queue.
	//
	// Safe for concurrent use by any number of goroutines.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// Consumer provides non-blocking dequeue operations. The element is
// returned by value, copied out of the queue node before the node is
// detached.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the queue (non-blocking).
	// Returns the dequeued element on success.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty; emptiness
	// is a normal outcome, not a failure.
	//
	// Safe for concurrent use by any number of goroutines.
	Dequeue() (T, error)
}

// QueuePtr is the combined interface for unsafe.Pointer queues.
//
// QueuePtr passes pointers directly without copying. This enables
// zero-copy transfer of objects between goroutines. The producer creates
// an object, enqueues its pointer, and the consumer receives the same
// pointer.
//
// Ownership semantics: the producer transfers ownership to the consumer.
// After enqueueing, the producer should not access the object.
//
// Example:
//
//	type Message struct {
//	    Data []byte
//	}
//
//	q := ubq.NewMSQueuePtr()
//
//	// Producer
//	msg := &Message{Data: largePayload}
//	q.Enqueue(unsafe.Pointer(msg))
//	// msg ownership transferred - do not use msg after this
//
//	// Consumer
//	ptr, _ := q.Dequeue()
//	msg := (*Message)(ptr)
//	// msg is now owned by consumer
type QueuePtr interface {
	ProducerPtr
	ConsumerPtr
}

// ProducerPtr enqueues unsafe.Pointer values (non-blocking).
type ProducerPtr interface {
	// Enqueue adds a pointer to the queue.
	// Returns ErrNilElement if elem is nil.
	Enqueue(elem unsafe.Pointer) error
}

// ConsumerPtr dequeues unsafe.Pointer values (non-blocking).
type ConsumerPtr interface {
	// Dequeue removes and returns a pointer from the queue.
	// Returns (nil, ErrWouldBlock) immediately if the queue is empty.
	Dequeue() (unsafe.Pointer, error)
}
