package tasks

import "context"

// TaskRunnerInterface runs a batch of tasks to completion over a worker
// pool. Used by the main application to aggregate all configured feeds.
// Example usage:
//
//	runner := NewRunner(workerCount)
//	runner.Run(ctx, taskList)
type TaskRunnerInterface interface {
	Run(ctx context.Context, taskList []TaskInterface)
}
