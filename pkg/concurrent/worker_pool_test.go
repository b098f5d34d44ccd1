package concurrent

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int, int](4, 100)
	wp.Start(func(job int) int {
		return job * job
	})
	for i := 0; i < 100; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	results := make([]int, 0, 100)
	for res := range wp.CollectResults() {
		results = append(results, res)
	}
	sort.Ints(results)
	assert.Len(t, results, 100)
	assert.Equal(t, 99*99, results[99])
}

func TestWorkerPoolWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wp := NewWorkerPool[int, int](2, 10)
	wp.StartWithContext(ctx, func(ctx context.Context, job int) int {
		return job
	})
	for i := 0; i < 10; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	count := 0
	for range wp.CollectResults() {
		count++
	}
	assert.Zero(t, count)
}
