package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsAll(t *testing.T) {
	for _, workers := range []int{1, 4} {
		pool := Start(workers)
		assert.Equal(t, workers, pool.Workers())

		var count atomic.Int64
		for range 100 {
			pool.Do(func() { count.Add(1) })
		}
		pool.Wait(true)

		assert.Equal(t, int64(100), count.Load(), "workers %d", workers)
	}
}

func TestPoolInlineOrder(t *testing.T) {
	pool := Start(1)

	var order []int
	for i := range 5 {
		pool.Do(func() { order = append(order, i) })
	}
	pool.Wait(true)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPoolDefaultWorkers(t *testing.T) {
	pool := Start(0)
	defer pool.Wait(true)

	assert.Equal(t, runtime.GOMAXPROCS(0), pool.Workers())
}

func TestPoolFuncs(t *testing.T) {
	pool := Start(2)

	var worker WorkerFunc = pool.Do
	var wait WaitFunc = pool.Wait

	var count atomic.Int64
	worker(func() { count.Add(1) })
	wait(true)
	wait(true)

	assert.Equal(t, int64(1), count.Load())
}
