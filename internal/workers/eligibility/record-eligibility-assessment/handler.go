// internal/workers/eligibility/record-eligibility-assessment/handler.go
package recordeligibilityassessment

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "property-eligibility-workers/internal/common/errors"
	"property-eligibility-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "record-eligibility-assessment"

	uniqueViolation = "23505"
)

var (
	ErrInvalidInput         = errors.New("INPUT_PARSING_FAILED")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateAssessment  = errors.New("DUPLICATE_ASSESSMENT")
)

type Handler struct {
	config       *Config
	db           *sql.DB
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
		now:          time.Now,
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
		h.errorHandler.HandleJobError(ctx, client, job, toStandardError(err, input.SubmissionID))
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.SubmissionID) == "" || strings.TrimSpace(input.ApplicantID) == "" {
		return nil, fmt.Errorf("%w: submissionId and applicantId are required", ErrInvalidInput)
	}

	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM eligibility_assessments
			WHERE submission_id = $1
		)`, input.SubmissionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %w", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: submission %s already recorded", ErrDuplicateAssessment, input.SubmissionID)
	}

	assessmentID := uuid.New().String()
	recordedAt := h.now().UTC()
	level := input.Result.QualificationLevel()

	resultJSON, err := json.Marshal(input.Result)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal result: %v", ErrDatabaseInsertFailed, err)
	}
	auditJSON, err := json.Marshal(map[string]interface{}{
		"submissionId":       input.SubmissionID,
		"overallScore":       input.OverallScore,
		"qualificationLevel": level,
	})
	if err != nil {
		auditJSON = []byte("{}")
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %w", ErrDatabaseInsertFailed, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO eligibility_assessments (
			assessment_id, submission_id, applicant_id, overall_score,
			mortgage_eligible, cash_investment_eligible, qualification_level,
			result_data, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		assessmentID,
		input.SubmissionID,
		input.ApplicantID,
		input.OverallScore,
		input.MortgageEligible,
		input.CashInvestmentEligible,
		string(level),
		resultJSON,
		recordedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: submission %s already recorded", ErrDuplicateAssessment, input.SubmissionID)
		}
		return nil, fmt.Errorf("%w: insert failed: %w", ErrDatabaseInsertFailed, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (entity_type, entity_id, action, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		"eligibility_assessment",
		assessmentID,
		"assessment_recorded",
		input.ApplicantID,
		auditJSON,
		recordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: audit log insert failed: %w", ErrDatabaseInsertFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit failed: %w", ErrDatabaseInsertFailed, err)
	}

	h.logger.Info("eligibility assessment recorded", map[string]interface{}{
		"assessmentId":       assessmentID,
		"submissionId":       input.SubmissionID,
		"applicantId":        input.ApplicantID,
		"overallScore":       input.OverallScore,
		"qualificationLevel": string(level),
	})

	return &Output{
		AssessmentID: assessmentID,
		RecordedAt:   recordedAt.Format(time.RFC3339),
	}, nil
}

func toStandardError(err error, submissionID string) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInputParsingFailedError(err)
	case errors.Is(err, ErrDuplicateAssessment):
		return apperrors.NewDuplicateAssessmentError(submissionID)
	case errors.Is(err, driver.ErrBadConn):
		return apperrors.NewDatabaseConnectionFailedError(err)
	case errors.Is(err, ErrDatabaseInsertFailed):
		return apperrors.NewDatabaseInsertFailedError(err)
	default:
		return apperrors.AsStandardError(err)
	}
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
		"jobKey":       job.Key,
		"assessmentId": output.AssessmentID,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
