// Package converter turns queued conversion requests into results: the
// orchestrator accepts and tracks requests, workers pull them through the
// extract → match → create pipeline using pooled agent sessions.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slipstream-bet/converter/internal/pkg/bookmakers"
	"github.com/slipstream-bet/converter/internal/pkg/matching"
	"github.com/slipstream-bet/converter/internal/pkg/models"
	"github.com/slipstream-bet/converter/internal/pkg/pool"
	"github.com/slipstream-bet/converter/internal/pkg/queue"
)

// ErrQueueFull signals that the conversion queue is at capacity. Retryable:
// callers should back off and resubmit.
var ErrQueueFull = errors.New("conversion queue is full")

// taskPollTimeout is how long a worker waits on the queue before checking
// the shutdown signal again.
const taskPollTimeout = time.Second

// ResultStore persists completed results beyond the in-memory map.
type ResultStore interface {
	Save(ctx context.Context, result models.ConversionResult) error
	Load(ctx context.Context, taskID string) (models.ConversionResult, bool, error)
}

// History archives completed conversions for later analysis.
type History interface {
	Record(ctx context.Context, task models.ConversionTask, result models.ConversionResult) error
}

// Notifier announces completed conversions.
type Notifier interface {
	NotifyConversion(task models.ConversionTask, result models.ConversionResult)
}

// Config tunes the orchestrator.
type Config struct {
	// Workers is the number of worker goroutines; defaults to the pool
	// capacity when zero.
	Workers int
	// MirrorTimeout bounds bookmaker mirror resolution. Default 30s.
	MirrorTimeout time.Duration
}

// Options are the optional collaborators. Nil fields are skipped.
type Options struct {
	Store    ResultStore
	History  History
	Notifier Notifier
}

// Orchestrator is the top-level entry point for conversions.
type Orchestrator struct {
	cfg    Config
	pool   *pool.Pool
	queue  *queue.Queue
	params matching.Params
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New wires an orchestrator over an existing pool and queue.
func New(cfg Config, p *pool.Pool, q *queue.Queue, params matching.Params, opts Options) *Orchestrator {
	if cfg.MirrorTimeout <= 0 {
		cfg.MirrorTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:    cfg,
		pool:   p,
		queue:  q,
		params: params,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker goroutines.
func (o *Orchestrator) Start() {
	workers := o.cfg.Workers
	if workers <= 0 {
		workers = o.pool.Capacity()
	}
	for i := 0; i < workers; i++ {
		id := fmt.Sprintf("worker_%d", i)
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			o.workerLoop(id)
		}()
	}
	slog.Info("Started conversion workers", "count", workers)
}

// Submit validates and enqueues a conversion request, returning the task
// id to poll. A full queue fails with ErrQueueFull.
func (o *Orchestrator) Submit(betslipCode, sourceBookmaker, destBookmaker string) (string, error) {
	task, err := o.newTask(betslipCode, sourceBookmaker, destBookmaker)
	if err != nil {
		return "", err
	}
	if !o.queue.AddTask(task) {
		return "", ErrQueueFull
	}
	slog.Info("Conversion task queued", "task_id", task.TaskID,
		"source", sourceBookmaker, "destination", destBookmaker)
	return task.TaskID, nil
}

// ConvertSync runs a conversion immediately on the calling goroutine,
// bypassing the queue but still going through the pool.
func (o *Orchestrator) ConvertSync(ctx context.Context, betslipCode, sourceBookmaker, destBookmaker string) models.ConversionResult {
	task, err := o.newTask(betslipCode, sourceBookmaker, destBookmaker)
	if err != nil {
		return failureResult(models.ConversionTask{TaskID: uuid.NewString(), CreatedAt: time.Now()},
			err.Error(), err.Error())
	}
	result := o.processTask(ctx, task)
	o.finishTask(task, result)
	return result
}

func (o *Orchestrator) newTask(betslipCode, sourceBookmaker, destBookmaker string) (models.ConversionTask, error) {
	if !models.ValidBetslipCode(betslipCode) {
		return models.ConversionTask{}, fmt.Errorf("invalid betslip code %q", betslipCode)
	}
	if _, err := bookmakers.Get(sourceBookmaker); err != nil {
		return models.ConversionTask{}, fmt.Errorf("source bookmaker: %w", err)
	}
	if _, err := bookmakers.Get(destBookmaker); err != nil {
		return models.ConversionTask{}, fmt.Errorf("destination bookmaker: %w", err)
	}
	if sourceBookmaker == destBookmaker {
		return models.ConversionTask{}, fmt.Errorf("source and destination bookmaker are the same")
	}
	return models.ConversionTask{
		TaskID:               uuid.NewString(),
		BetslipCode:          betslipCode,
		SourceBookmaker:      sourceBookmaker,
		DestinationBookmaker: destBookmaker,
		CreatedAt:            time.Now(),
	}, nil
}

// PollResult returns a completed result by task id. Results evicted from
// memory are looked up in the configured store.
func (o *Orchestrator) PollResult(ctx context.Context, taskID string) (models.ConversionResult, bool) {
	if result, ok := o.queue.GetResult(taskID); ok {
		return result, true
	}
	if o.opts.Store != nil {
		result, ok, err := o.opts.Store.Load(ctx, taskID)
		if err != nil {
			slog.Warn("Result store lookup failed", "task_id", taskID, "error", err)
			return models.ConversionResult{}, false
		}
		return result, ok
	}
	return models.ConversionResult{}, false
}

// Status is a snapshot of system load for upstream shedding decisions.
type Status struct {
	QueueSize       int     `json:"queue_size"`
	ProcessingCount int     `json:"processing_count"`
	ActiveResources int     `json:"active_resources"`
	TotalResources  int     `json:"total_resources"`
	MemoryUsageMB   float64 `json:"memory_usage_mb"`
	MemoryPressure  bool    `json:"memory_pressure"`
}

// Status reports queue and pool load.
func (o *Orchestrator) Status() Status {
	active, total := o.pool.Counts()
	return Status{
		QueueSize:       o.queue.Size(),
		ProcessingCount: o.queue.ProcessingCount(),
		ActiveResources: active,
		TotalResources:  total,
		MemoryUsageMB:   o.pool.MemoryUsageMB(),
		MemoryPressure:  o.pool.MemoryPressure(),
	}
}

// Shutdown stops workers from picking up new tasks, waits up to timeout
// for in-flight tasks, then destroys the pool regardless.
func (o *Orchestrator) Shutdown(timeout time.Duration) {
	o.cancel()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		slog.Info("All conversion workers stopped")
	case <-time.After(timeout):
		slog.Warn("Shutdown timeout reached with workers still in flight")
	}

	o.pool.Shutdown()
}

// finishTask records the outcome everywhere it needs to go. Every exit
// path of a task funnels through here exactly once.
func (o *Orchestrator) finishTask(task models.ConversionTask, result models.ConversionResult) {
	o.queue.CompleteTask(task.TaskID, result)

	if o.opts.Store != nil {
		if err := o.opts.Store.Save(context.Background(), result); err != nil {
			slog.Warn("Failed to persist conversion result", "task_id", task.TaskID, "error", err)
		}
	}
	if o.opts.History != nil {
		if err := o.opts.History.Record(context.Background(), task, result); err != nil {
			slog.Warn("Failed to record conversion history", "task_id", task.TaskID, "error", err)
		}
	}
	if o.opts.Notifier != nil {
		o.opts.Notifier.NotifyConversion(task, result)
	}
}
