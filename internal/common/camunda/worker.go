// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"property-eligibility-workers/internal/common/config"
	"property-eligibility-workers/internal/common/logger"
	"property-eligibility-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusError     = "bpmn_error"
	StatusNoAnswer  = "unanswered"
)

// JobHandler is implemented by every worker's Handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Recorder receives per-job telemetry. *observability.Observability satisfies it.
type Recorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string)
}

// Instrument wraps a handler with the worker metrics. The job outcome is
// taken from whichever command the handler issued.
func Instrument(taskType string, handler JobHandler, rec Recorder) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		tracked := &statusClient{JobClient: client, status: StatusNoAnswer}
		start := time.Now()

		handler.Handle(tracked, job)

		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if tracked.status == StatusCompleted {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}
		if rec != nil {
			ctx := context.Background()
			rec.RecordJobProcessed(ctx, taskType, tracked.status)
			rec.RecordJobDuration(ctx, taskType, elapsed, tracked.status)
		}
	}
}

// StartWorker opens a job worker for taskType unless it is disabled.
// It returns nil for a disabled worker.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, rec Recorder, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, rec)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(wcfg.TimeoutDuration()).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

type statusClient struct {
	worker.JobClient
	status string
}

func (c *statusClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.status = StatusCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *statusClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.status = StatusFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *statusClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.status = StatusError
	return c.JobClient.NewThrowErrorCommand()
}
