package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool(t *testing.T) {
	tests := []struct {
		name           string
		numTasks       int
		numWorkers     int
		expectedErrors int
	}{
		{
			name:       "Runs simple tasks",
			numTasks:   5,
			numWorkers: 2,
		},
		{
			name:           "Failed task does not stop the pool",
			numTasks:       3,
			numWorkers:     2,
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := NewWorkerPool(tt.numWorkers)

			var executed, failed atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < tt.numTasks; i++ {
				wg.Add(1)
				fail := i == tt.numTasks-1 && tt.expectedErrors > 0
				err := wp.AddTask(context.Background(), func() error {
					defer wg.Done()
					if fail {
						failed.Add(1)
						return assert.AnError
					}
					time.Sleep(10 * time.Millisecond)
					executed.Add(1)
					return nil
				})
				require.NoError(t, err)
			}

			wg.Wait()
			wp.Close()

			assert.Equal(t, int32(tt.numTasks-tt.expectedErrors), executed.Load())
			assert.Equal(t, int32(tt.expectedErrors), failed.Load())
		})
	}
}

func TestWorkerPool_PanickingTask(t *testing.T) {
	wp := NewWorkerPool(1)

	var after atomic.Bool
	require.NoError(t, wp.AddTask(context.Background(), func() error {
		var sub map[string]string
		sub["endpoint"] = "boom"
		return nil
	}))
	require.NoError(t, wp.AddTask(context.Background(), func() error {
		after.Store(true)
		return nil
	}))
	wp.Close()

	assert.True(t, after.Load(), "worker must survive a panicking task")
}

func TestRunRecoversPanic(t *testing.T) {
	err := run(func() error { panic("send failed") })
	assert.ErrorContains(t, err, "task panicked: send failed")

	assert.NoError(t, run(func() error { return nil }))
}

func TestWorkerPool_AddTaskCanceled(t *testing.T) {
	wp := NewWorkerPool(1)
	defer wp.Close()

	block := make(chan struct{})
	require.NoError(t, wp.AddTask(context.Background(), func() error { <-block; return nil }))
	require.NoError(t, wp.AddTask(context.Background(), func() error { return nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := wp.AddTask(ctx, func() error { return nil })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(block)
}

func TestWorkerPool_Close(t *testing.T) {
	wp := NewWorkerPool(2)

	var done atomic.Bool
	require.NoError(t, wp.AddTask(context.Background(), func() error {
		time.Sleep(20 * time.Millisecond)
		done.Store(true)
		return nil
	}))
	wp.Close()

	assert.True(t, done.Load(), "Close must wait for queued tasks")
	assert.ErrorIs(t, wp.AddTask(context.Background(), func() error { return nil }), ErrPoolClosed)
	wp.Close()
}
