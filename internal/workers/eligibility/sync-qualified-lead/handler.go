// internal/workers/eligibility/sync-qualified-lead/handler.go
package syncqualifiedlead

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "property-eligibility-workers/internal/common/errors"
	"property-eligibility-workers/internal/common/logger"
	"property-eligibility-workers/internal/common/zoho"
	"property-eligibility-workers/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "sync-qualified-lead"
)

// CRM is the part of *zoho.CRMClient the worker uses.
type CRM interface {
	Configured() bool
	SearchContacts(ctx context.Context, email string) ([]zoho.Contact, error)
	CreateContact(ctx context.Context, contact *zoho.Contact) (string, error)
}

type Handler struct {
	config       *Config
	crm          CRM
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, crm CRM, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		crm:          crm,
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
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	level := input.Result.QualificationLevel()
	if level == eligibility.LevelNotEligible || strings.TrimSpace(input.Email) == "" {
		h.logger.Info("lead sync skipped", map[string]interface{}{
			"applicantId": input.ApplicantID,
			"level":       string(level),
		})
		return &Output{LeadSyncStatus: StatusSkipped}, nil
	}

	if h.crm == nil || !h.crm.Configured() {
		return nil, apperrors.NewCRMNotConfiguredError()
	}

	existing, err := h.crm.SearchContacts(ctx, input.Email)
	if err != nil {
		return nil, apperrors.NewCRMSyncFailedError(fmt.Errorf("search contacts: %w", err))
	}
	if len(existing) > 0 {
		h.logger.Info("lead already in CRM", map[string]interface{}{
			"applicantId": input.ApplicantID,
			"contactId":   existing[0].ID,
		})
		return &Output{LeadSyncStatus: StatusExists, CRMContactID: existing[0].ID}, nil
	}

	contactID, err := h.crm.CreateContact(ctx, h.buildContact(input, level))
	if err != nil {
		return nil, apperrors.NewCRMSyncFailedError(fmt.Errorf("create contact: %w", err))
	}

	h.logger.Info("lead synced to CRM", map[string]interface{}{
		"applicantId": input.ApplicantID,
		"contactId":   contactID,
		"level":       string(level),
	})
	return &Output{LeadSyncStatus: StatusCreated, CRMContactID: contactID}, nil
}

func (h *Handler) buildContact(input *Input, level eligibility.QualificationLevel) *zoho.Contact {
	first, last := splitName(input.FullName)
	if last == "" {
		last = strings.SplitN(input.Email, "@", 2)[0]
	}

	description := fmt.Sprintf("Eligibility score %d/%d.", input.OverallScore, eligibility.MaxScore)
	if len(input.RecommendedOwnershipTypes) > 0 {
		labels := make([]string, 0, len(input.RecommendedOwnershipTypes))
		for _, o := range input.RecommendedOwnershipTypes {
			labels = append(labels, string(o))
		}
		description += " Recommended: " + strings.Join(labels, ", ") + "."
	}
	if input.AssessmentID != "" {
		description += " Assessment " + input.AssessmentID + "."
	}

	return &zoho.Contact{
		Email:              input.Email,
		FirstName:          first,
		LastName:           last,
		Phone:              input.Phone,
		Source:             h.config.LeadSource,
		Description:        description,
		EligibilityScore:   input.OverallScore,
		QualificationLevel: string(level),
	}
}

// splitName treats the last word as the family name.
func splitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
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
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
