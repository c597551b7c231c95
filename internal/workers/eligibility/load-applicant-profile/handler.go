// internal/workers/eligibility/load-applicant-profile/handler.go
package loadapplicantprofile

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "property-eligibility-workers/internal/common/errors"
	"property-eligibility-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType       = "load-applicant-profile"
	cacheKeyPrefix = "eligibility:profile:"
	defaultLocale  = "en"
)

var (
	ErrInvalidInput      = errors.New("INPUT_PARSING_FAILED")
	ErrProfileNotFound   = errors.New("PROFILE_NOT_FOUND")
	ErrProfileLoadFailed = errors.New("PROFILE_LOAD_FAILED")
	ErrQueryTimeout      = errors.New("QUERY_TIMEOUT")
)

const profileQuery = `SELECT profile_data, email, phone, full_name, locale FROM applicant_profiles WHERE applicant_id = $1`

type Handler struct {
	config       *Config
	db           *sql.DB
	redis        *redis.Client
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		redis:        redisClient,
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
		h.errorHandler.HandleJobError(ctx, client, job, toStandardError(err, input.ApplicantID))
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	applicantID := strings.TrimSpace(input.ApplicantID)
	if applicantID == "" {
		return nil, fmt.Errorf("%w: applicantId is required", ErrInvalidInput)
	}

	cacheKey := cacheKeyPrefix + applicantID
	if cached, ok := h.readCache(ctx, cacheKey); ok {
		h.logger.Debug("profile served from cache", map[string]interface{}{
			"applicantId": applicantID,
		})
		return &Output{StoredProfile: *cached, CacheHit: true}, nil
	}

	var (
		profileData            []byte
		email, phone, fullName sql.NullString
		locale                 sql.NullString
	)
	err := h.db.QueryRowContext(ctx, profileQuery, applicantID).Scan(
		&profileData, &email, &phone, &fullName, &locale,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: applicant %s", ErrProfileNotFound, applicantID)
		}
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", ErrQueryTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProfileLoadFailed, err)
	}

	profile, err := decodeProfile(profileData)
	if err != nil {
		return nil, fmt.Errorf("%w: profile_data: %v", ErrProfileLoadFailed, err)
	}

	stored := StoredProfile{
		ApplicantID: applicantID,
		Profile:     profile,
		Email:       email.String,
		Phone:       phone.String,
		FullName:    fullName.String,
		Locale:      locale.String,
	}
	if stored.Locale == "" {
		stored.Locale = defaultLocale
	}

	h.writeCache(ctx, cacheKey, &stored)

	h.logger.Info("profile loaded", map[string]interface{}{
		"applicantId": applicantID,
		"fieldCount":  len(profile),
		"locale":      stored.Locale,
	})

	return &Output{StoredProfile: stored}, nil
}

// decodeProfile keeps numbers as json.Number so large IDR amounts survive.
func decodeProfile(data []byte) (map[string]interface{}, error) {
	profile := map[string]interface{}{}
	if len(bytes.TrimSpace(data)) == 0 {
		return profile, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&profile); err != nil {
		return nil, err
	}
	if profile == nil {
		profile = map[string]interface{}{}
	}
	return profile, nil
}

// Cache errors never fail the job; the database stays the source of truth.
func (h *Handler) readCache(ctx context.Context, key string) (*StoredProfile, bool) {
	if h.redis == nil {
		return nil, false
	}
	val, err := h.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("profile cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var stored StoredProfile
	dec := json.NewDecoder(bytes.NewReader(val))
	dec.UseNumber()
	if err := dec.Decode(&stored); err != nil {
		h.logger.Warn("discarding corrupt profile cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	return &stored, true
}

func (h *Handler) writeCache(ctx context.Context, key string, stored *StoredProfile) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("profile cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func toStandardError(err error, applicantID string) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInputParsingFailedError(err)
	case errors.Is(err, ErrProfileNotFound):
		return apperrors.NewProfileNotFoundError(applicantID)
	case errors.Is(err, ErrQueryTimeout):
		return apperrors.NewQueryTimeoutError("load applicant profile")
	case errors.Is(err, ErrProfileLoadFailed):
		return apperrors.NewProfileLoadFailedError(err)
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
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
