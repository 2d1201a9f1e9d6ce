// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ubq_test

import (
	"fmt"
	"sync"
	"unsafe"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/ubq"
)

// ExampleNewMSQueue demonstrates basic FIFO usage.
func ExampleNewMSQueue() {
	q := ubq.NewMSQueue[int]()

	for i := 1; i <= 3; i++ {
		v := i * 10
		q.Enqueue(&v)
	}

	for {
		v, err := q.Dequeue()
		if err != nil {
			fmt.Println("empty")
			break
		}
		fmt.Println(v)
	}

	// Output:
	// 10
	// 20
	// 30
	// empty
}

// ExampleNewMSQueuePool demonstrates the recycling variant: after the
// initial reservation, steady-state operation allocates nothing.
func ExampleNewMSQueuePool() {
	q := ubq.NewMSQueuePool[string](1024)

	s := "recycled"
	q.Enqueue(&s)
	v, _ := q.Dequeue()
	fmt.Println(v)

	// Output:
	// recycled
}

// ExampleNewMSQueuePtr demonstrates zero-copy pointer handoff.
func ExampleNewMSQueuePtr() {
	type message struct {
		data string
	}

	q := ubq.NewMSQueuePtr()

	// Producer transfers ownership of msg
	msg := &message{data: "zero-copy"}
	q.Enqueue(unsafe.Pointer(msg))

	// Consumer receives the same object, no copy
	p, _ := q.Dequeue()
	fmt.Println((*message)(p).data)

	// Output:
	// zero-copy
}

// ExampleBuild demonstrates fan-in aggregation from multiple producers.
func ExampleBuild() {
	q := ubq.Build[int](ubq.New())

	var wg sync.WaitGroup
	for p := range 4 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			v := id
			q.Enqueue(&v)
		}(p)
	}
	wg.Wait()

	// Single consumer drains the aggregate
	sum := 0
	backoff := iox.Backoff{}
	for n := 0; n < 4; {
		v, err := q.Dequeue()
		if err != nil {
			backoff.Wait()
			continue
		}
		backoff.Reset()
		sum += v
		n++
	}
	fmt.Println(sum)

	// Output:
	// 6
}
