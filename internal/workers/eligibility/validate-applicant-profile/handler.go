// internal/workers/eligibility/validate-applicant-profile/handler.go
package validateapplicantprofile

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "property-eligibility-workers/internal/common/errors"
	"property-eligibility-workers/internal/common/logger"
	"property-eligibility-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-applicant-profile"
)

var ErrProfileInvalid = errors.New("PROFILE_VALIDATION_FAILED")

//go:embed schema.json
var profileSchemaJSON []byte

var profileSchema = validation.MustCompile(profileSchemaJSON)

type Handler struct {
	config       *Config
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewInputParsingFailedError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, h.toStandardError(err, output))
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Profile == nil {
		input.Profile = map[string]interface{}{}
	}

	result, err := profileSchema.Validate(input.Profile)
	if err != nil {
		return nil, err
	}

	output := &Output{
		ProfileValid:     result.Valid,
		ValidationErrors: result.Errors,
	}
	if output.ValidationErrors == nil {
		output.ValidationErrors = []validation.ValidationError{}
	}

	if !result.Valid {
		h.logger.Warn("profile failed validation", map[string]interface{}{
			"applicantId": input.ApplicantID,
			"errorCount":  len(result.Errors),
		})
		if h.config.ThrowOnInvalid {
			return output, fmt.Errorf("%w: %s", ErrProfileInvalid, result.Summary())
		}
		return output, nil
	}

	h.logger.Info("profile validated", map[string]interface{}{
		"applicantId": input.ApplicantID,
	})
	return output, nil
}

func (h *Handler) toStandardError(err error, output *Output) *apperrors.StandardError {
	if errors.Is(err, ErrProfileInvalid) && output != nil {
		fields := make([]string, 0, len(output.ValidationErrors))
		for _, ve := range output.ValidationErrors {
			fields = append(fields, ve.Field)
		}
		return apperrors.NewProfileValidationFailedError(err.Error()).
			WithMetadata("validationErrors", output.ValidationErrors).
			WithMetadata("invalidFields", fields)
	}
	return apperrors.AsStandardError(err)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey":       job.Key,
		"profileValid": output.ProfileValid,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
