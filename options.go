// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq

// Options configures queue creation and variant selection.
type Options struct {
	// Recycling selects the pooled, epoch-reclaimed variant.
	recycling bool

	// Node reservation hint for the recycling variant.
	prealloc int
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Direct queue (GC-reclaimed nodes, simplest)
//	q := ubq.Build[Event](ubq.New())
//
//	// Recycling queue with 8192 nodes reserved up front
//	q := ubq.Build[Event](ubq.New().Recycling().Prealloc(8192))
//
//	// Zero-copy pointer queue
//	q := ubq.New().BuildPtr()
type Builder struct {
	opts Options
}

// New creates a queue builder. Unbounded queues take no capacity; use
// Prealloc to reserve nodes for the recycling variant.
func New() *Builder {
	return &Builder{}
}

// Recycling selects the pooled variant with epoch-based node
// reclamation. Trade-off: zero steady-state allocation, at the cost of a
// guard-slot pin per operation.
func (b *Builder) Recycling() *Builder {
	b.opts.recycling = true
	return b
}

// Prealloc reserves at least n nodes up front (rounded up to whole
// blocks). Only the recycling variant honors it; the direct variant
// allocates per enqueue and ignores Prealloc.
// Panics if n is negative.
func (b *Builder) Prealloc(n int) *Builder {
	if n < 0 {
		panic("ubq: prealloc must be >= 0")
	}
	b.opts.prealloc = n
	return b
}

// Build creates a Queue[T] with automatic variant selection.
//
// Variant selection:
//
//	default     → MSQueue (GC-reclaimed nodes)
//	Recycling() → MSQueuePool (pooled nodes, epoch reclamation)
//
// For type-safe returns with concrete types, use:
//   - BuildDirect[T](b)    → *MSQueue[T]
//   - BuildRecycling[T](b) → *MSQueuePool[T]
func Build[T any](b *Builder) Queue[T] {
	if b.opts.recycling {
		return NewMSQueuePool[T](b.opts.prealloc)
	}
	return NewMSQueue[T]()
}

// BuildDirect creates a direct queue with compile-time type safety.
// Panics if the builder is configured with Recycling().
func BuildDirect[T any](b *Builder) *MSQueue[T] {
	if b.opts.recycling {
		panic("ubq: BuildDirect conflicts with Recycling()")
	}
	return NewMSQueue[T]()
}

// BuildRecycling creates a recycling queue with compile-time type safety.
// Panics if the builder is not configured with Recycling().
func BuildRecycling[T any](b *Builder) *MSQueuePool[T] {
	if !b.opts.recycling {
		panic("ubq: BuildRecycling requires Recycling()")
	}
	return NewMSQueuePool[T](b.opts.prealloc)
}

// BuildPtr creates a QueuePtr for unsafe.Pointer values.
// Only the direct variant exists for pointer payloads; panics if the
// builder is configured with Recycling().
func (b *Builder) BuildPtr() QueuePtr {
	if b.opts.recycling {
		panic("ubq: BuildPtr has no recycling variant")
	}
	return NewMSQueuePtr()
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
