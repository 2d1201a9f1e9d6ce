// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq_test

import (
	"errors"
	"testing"
	"unsafe"

	"code.hybscloud.com/ubq"
)

// =============================================================================
// Builder API Tests (Consolidated)
// =============================================================================

// TestBuilderAPI tests all Builder combinations in a table-driven fashion.
func TestBuilderAPI(t *testing.T) {
	tests := []struct {
		name  string
		build func() (enq func(v int) error, deq func() (int, error))
	}{
		{
			name: "Default",
			build: func() (func(int) error, func() (int, error)) {
				q := ubq.Build[int](ubq.New())
				return func(v int) error { return q.Enqueue(&v) }, q.Dequeue
			},
		},
		{
			name: "Recycling",
			build: func() (func(int) error, func() (int, error)) {
				q := ubq.Build[int](ubq.New().Recycling())
				return func(v int) error { return q.Enqueue(&v) }, q.Dequeue
			},
		},
		{
			name: "RecyclingPrealloc",
			build: func() (func(int) error, func() (int, error)) {
				q := ubq.Build[int](ubq.New().Recycling().Prealloc(5000))
				return func(v int) error { return q.Enqueue(&v) }, q.Dequeue
			},
		},
		{
			name: "TypedDirect",
			build: func() (func(int) error, func() (int, error)) {
				q := ubq.BuildDirect[int](ubq.New())
				return func(v int) error { return q.Enqueue(&v) }, q.Dequeue
			},
		},
		{
			name: "TypedRecycling",
			build: func() (func(int) error, func() (int, error)) {
				q := ubq.BuildRecycling[int](ubq.New().Recycling())
				return func(v int) error { return q.Enqueue(&v) }, q.Dequeue
			},
		},
		{
			name: "Ptr",
			build: func() (func(int) error, func() (int, error)) {
				q := ubq.New().BuildPtr()
				box := make([]int, 0, 8)
				return func(v int) error {
						box = append(box, v)
						return q.Enqueue(unsafe.Pointer(&box[len(box)-1]))
					}, func() (int, error) {
						p, err := q.Dequeue()
						if err != nil {
							return 0, err
						}
						return *(*int)(p), nil
					}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enq, deq := tt.build()
			for i := 1; i <= 5; i++ {
				if err := enq(i); err != nil {
					t.Fatalf("Enqueue(%d): %v", i, err)
				}
			}
			for i := 1; i <= 5; i++ {
				v, err := deq()
				if err != nil {
					t.Fatalf("Dequeue(%d): %v", i, err)
				}
				if v != i {
					t.Fatalf("Dequeue: got %d, want %d", v, i)
				}
			}
			if _, err := deq(); !errors.Is(err, ubq.ErrWouldBlock) {
				t.Fatalf("Dequeue on drained queue: got %v, want ErrWouldBlock", err)
			}
		})
	}
}

// TestBuilderPanics verifies contradictory configurations panic.
func TestBuilderPanics(t *testing.T) {
	tests := []struct {
		name string
		f    func()
	}{
		{"BuildDirectWithRecycling", func() { ubq.BuildDirect[int](ubq.New().Recycling()) }},
		{"BuildRecyclingWithoutRecycling", func() { ubq.BuildRecycling[int](ubq.New()) }},
		{"BuildPtrWithRecycling", func() { ubq.New().Recycling().BuildPtr() }},
		{"NegativePrealloc", func() { ubq.New().Prealloc(-1) }},
		{"NegativePoolPrealloc", func() { ubq.NewMSQueuePool[int](-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.f()
		})
	}
}
