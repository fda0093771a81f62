package tasks

import (
	"log/slog"
	"sync"
	"time"

	"context"
)

var _ TaskRunnerInterface = (*Runner)(nil)

// Runner drains a batch of tasks over a fixed worker pool. Each task gets
// its own timeout and a capped exponential retry; one failing feed never
// aborts the rest of the batch.
type Runner struct {
	workerCount int
	taskTimeout time.Duration
}

func NewRunner(workerCount int) *Runner {
	return &Runner{
		workerCount: workerCount,
		taskTimeout: 5 * time.Minute,
	}
}

// Run blocks until every task has either succeeded, exhausted its retries,
// or the context was cancelled.
func (r *Runner) Run(ctx context.Context, taskList []TaskInterface) {
	if len(taskList) == 0 {
		slog.Debug("No tasks to run")
		return
	}

	queue := make(chan TaskInterface, len(taskList))
	for _, task := range taskList {
		queue <- task
	}
	close(queue)

	slog.Debug("Running tasks", "count", len(taskList), "workers", r.workerCount)

	var wg sync.WaitGroup
	for i := 0; i < r.workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for task := range queue {
				select {
				case <-ctx.Done():
					return
				default:
				}
				r.executeTask(ctx, id, task)
			}
		}(i)
	}

	wg.Wait()
}

func (r *Runner) executeTask(ctx context.Context, workerID int, task TaskInterface) {
	for {
		task.Start()

		taskCtx, cancel := context.WithTimeout(ctx, r.taskTimeout)
		err := task.Execute(taskCtx)
		cancel()

		if err == nil {
			return
		}

		slog.Error("Worker task execution failed",
			"worker_id", workerID, "type", string(task.GetType()),
			"id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if !task.CanRetry() {
			slog.Error("Task failed after maximum retries",
				"type", string(task.GetType()), "id", task.GetID(),
				"retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(),
				"last_error", err)
			return
		}

		task.IncrementRetryCount()
		retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
		if retryDelay > 30*time.Second {
			retryDelay = 30 * time.Second
		}

		slog.Warn("Task retry scheduled",
			"type", string(task.GetType()), "feed", task.GetFeedName(),
			"retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(),
			"delay", retryDelay.String())

		select {
		case <-ctx.Done():
			slog.Debug("Runner stopped, skipping task retry",
				"type", string(task.GetType()), "id", task.GetID())
			return
		case <-time.After(retryDelay):
		}
	}
}
