// internal/workers/eligibility/check-property-eligibility/handler.go
package checkpropertyeligibility

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "property-eligibility-workers/internal/common/errors"
	"property-eligibility-workers/internal/common/logger"
	"property-eligibility-workers/internal/common/metrics"
	"property-eligibility-workers/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TaskType = "check-property-eligibility"
)

type Handler struct {
	config       *Config
	tracer       trace.Tracer
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, tracer trace.Tracer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		tracer:       tracer,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := decodeVariables(job.Variables, &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewInputParsingFailedError(err))
		return
	}

	output := h.execute(ctx, &input)
	h.completeJob(ctx, client, job, output)
}

// decodeVariables keeps numbers as json.Number so amounts above 2^53 are exact.
func decodeVariables(raw string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	_, span := h.tracer.Start(ctx, "eligibility.evaluate",
		trace.WithAttributes(attribute.String("applicant.id", input.ApplicantID)))
	defer span.End()

	profile := eligibility.ParseProfile(input.Profile)
	result := eligibility.Evaluate(profile)
	level := result.QualificationLevel()

	span.SetAttributes(
		attribute.Int("eligibility.score", result.OverallScore),
		attribute.String("eligibility.level", string(level)),
		attribute.Int("eligibility.requirements", len(result.Requirements)),
		attribute.Int("eligibility.suggestions", len(result.Suggestions)),
	)
	metrics.RecordEvaluation(result)

	// Amounts stay out of info logs.
	h.logger.Info("eligibility evaluated", map[string]interface{}{
		"applicantId":        input.ApplicantID,
		"overallScore":       result.OverallScore,
		"qualificationLevel": string(level),
		"requirements":       len(result.Requirements),
		"suggestions":        len(result.Suggestions),
	})

	return &Output{Result: result, QualificationLevel: level}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return h.execute(ctx, input)
}
