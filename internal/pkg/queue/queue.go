// Package queue decouples conversion submission from processing with a
// bounded FIFO, and keeps the task-id → outcome mapping for the process
// lifetime.
package queue

import (
	"sync"
	"time"

	"github.com/slipstream-bet/converter/internal/pkg/models"
)

// Queue is a bounded FIFO of conversion tasks plus the processing and
// completed bookkeeping. One mutex guards the maps; the channel provides
// the FIFO and the bound.
type Queue struct {
	tasks chan models.ConversionTask

	mu         sync.Mutex
	processing map[string]models.ConversionTask
	completed  map[string]models.ConversionResult
}

// New builds a queue holding at most maxSize pending tasks.
func New(maxSize int) *Queue {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Queue{
		tasks:      make(chan models.ConversionTask, maxSize),
		processing: make(map[string]models.ConversionTask),
		completed:  make(map[string]models.ConversionResult),
	}
}

// AddTask enqueues without blocking. False means the queue is full, a
// backpressure signal for the caller to reject the request, not an error.
func (q *Queue) AddTask(task models.ConversionTask) bool {
	select {
	case q.tasks <- task:
		return true
	default:
		return false
	}
}

// GetTask dequeues the next task, waiting at most timeout so callers can
// check shutdown signals between polls. The task is tracked as processing
// until CompleteTask.
func (q *Queue) GetTask(timeout time.Duration) (models.ConversionTask, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case task := <-q.tasks:
		q.mu.Lock()
		q.processing[task.TaskID] = task
		q.mu.Unlock()
		return task, true
	case <-timer.C:
		return models.ConversionTask{}, false
	}
}

// CompleteTask records the outcome and drops the task from the processing
// set. Exactly one call per dequeued task; later lookups read the result
// from the completed map.
func (q *Queue) CompleteTask(taskID string, result models.ConversionResult) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.processing, taskID)
	q.completed[taskID] = result
}

// GetResult returns the outcome of a completed task, if any.
func (q *Queue) GetResult(taskID string) (models.ConversionResult, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	result, ok := q.completed[taskID]
	return result, ok
}

// Size returns the number of tasks waiting in the queue.
func (q *Queue) Size() int {
	return len(q.tasks)
}

// ProcessingCount returns the number of tasks currently being worked on.
func (q *Queue) ProcessingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.processing)
}
