// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq_test

import (
	"testing"
	"unsafe"

	"code.hybscloud.com/ubq"
)

// =============================================================================
// Single-Op Baselines
// =============================================================================

func BenchmarkMSQueue_SingleOp(b *testing.B) {
	q := ubq.NewMSQueue[int]()

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
		q.Dequeue()
	}
}

func BenchmarkMSQueuePool_SingleOp(b *testing.B) {
	q := ubq.NewMSQueuePool[int](1024)

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
		q.Dequeue()
	}
}

func BenchmarkMSQueuePtr_SingleOp(b *testing.B) {
	q := ubq.NewMSQueuePtr()
	val := 42

	b.ResetTimer()
	for range b.N {
		q.Enqueue(unsafe.Pointer(&val))
		q.Dequeue()
	}
}

// =============================================================================
// Contended Throughput
// =============================================================================

func BenchmarkMSQueue_Parallel(b *testing.B) {
	q := ubq.NewMSQueue[int]()

	b.RunParallel(func(pb *testing.PB) {
		v := 1
		for pb.Next() {
			q.Enqueue(&v)
			q.Dequeue()
		}
	})
}

func BenchmarkMSQueuePool_Parallel(b *testing.B) {
	q := ubq.NewMSQueuePool[int](8192)

	b.RunParallel(func(pb *testing.PB) {
		v := 1
		for pb.Next() {
			q.Enqueue(&v)
			q.Dequeue()
		}
	})
}

// BenchmarkMSQueue_EnqueueOnly measures the allocation-heavy path the
// recycling variant exists to avoid.
func BenchmarkMSQueue_EnqueueOnly(b *testing.B) {
	q := ubq.NewMSQueue[int]()

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
	}
}

func BenchmarkMSQueuePool_EnqueueDequeuePair(b *testing.B) {
	q := ubq.NewMSQueuePool[int](1 << 16)

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
		q.Dequeue()
	}
}
