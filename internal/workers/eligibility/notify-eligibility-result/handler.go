// internal/workers/eligibility/notify-eligibility-result/handler.go
package notifyeligibilityresult

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "property-eligibility-workers/internal/common/errors"
	"property-eligibility-workers/internal/common/logger"
	"property-eligibility-workers/internal/eligibility/i18n"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/text/language"
)

const (
	TaskType = "notify-eligibility-result"
)

// EmailSender is satisfied by *aws.Mailer.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender is satisfied by *aws.SMSSender.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
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

func (h *Handler) locale(requested string) language.Tag {
	if strings.TrimSpace(requested) == "" {
		return h.config.DefaultLocale
	}
	return i18n.Match(requested)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	tag := h.locale(input.Locale)
	report := i18n.Render(input.Result, tag)

	output := &Output{
		NotificationLocale: report.Locale,
		EmailStatus:        StatusDisabled,
		SMSStatus:          StatusDisabled,
	}

	if h.config.EmailEnabled && h.email != nil {
		if input.Email == "" {
			output.EmailStatus = StatusSkipped
		} else {
			messageID, err := h.email.SendEmail(ctx, input.Email, report.Headline, emailBody(input.FullName, report))
			if err != nil {
				return nil, apperrors.NewNotificationSendFailedError("email", err)
			}
			output.EmailStatus = StatusSent
			output.EmailMessageID = messageID
		}
	}

	// SMS is a courtesy for mortgage-ready applicants; failures do not
	// block the process.
	if h.config.SMSEnabled && h.sms != nil {
		switch {
		case !input.MortgageEligible || input.Phone == "":
			output.SMSStatus = StatusSkipped
		default:
			messageID, err := h.sms.SendSMS(ctx, input.Phone, report.Headline)
			if err != nil {
				h.logger.Warn("sms notification failed", map[string]interface{}{
					"applicantId": input.ApplicantID,
					"error":       err.Error(),
				})
				output.SMSStatus = StatusFailed
			} else {
				output.SMSStatus = StatusSent
				output.SMSMessageID = messageID
			}
		}
	}

	h.logger.Info("eligibility notification processed", map[string]interface{}{
		"applicantId": input.ApplicantID,
		"locale":      output.NotificationLocale,
		"level":       string(input.Result.QualificationLevel()),
		"emailStatus": output.EmailStatus,
		"smsStatus":   output.SMSStatus,
	})
	return output, nil
}

func emailBody(fullName string, report i18n.Report) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return fmt.Sprintf("%s,\n\n%s", name, report.Text())
	}
	return report.Text()
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
