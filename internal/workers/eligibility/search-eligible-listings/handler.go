// internal/workers/eligibility/search-eligible-listings/handler.go
package searcheligiblelistings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "property-eligibility-workers/internal/common/errors"
	"property-eligibility-workers/internal/common/logger"
	"property-eligibility-workers/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "search-eligible-listings"
)

var (
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrSearchQueryFailed             = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout                 = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound                 = errors.New("INDEX_NOT_FOUND")
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
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
	dec := json.NewDecoder(strings.NewReader(job.Variables))
	dec.UseNumber()
	if err := dec.Decode(&input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewInputParsingFailedError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, h.toStandardError(err))
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile := eligibility.ParseProfile(input.Profile)
	ownership := searchableOwnership(input.RecommendedOwnershipTypes)
	b := budgetFor(profile, h.config.RentIncomeRatio)

	query := buildQuery(ownership, b, h.config.MaxListings)
	if query == nil {
		h.logger.Info("listing search skipped", map[string]interface{}{
			"applicantId":    input.ApplicantID,
			"ownershipTypes": len(ownership),
		})
		return &Output{Listings: []Listing{}, SearchSkipped: true}, nil
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchQueryFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{h.config.Index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, h.client)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrSearchTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, h.config.Index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}

	listings := make([]Listing, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		doc := hit.Source
		id := doc.ListingID
		if id == "" {
			id = hit.ID
		}
		listings = append(listings, Listing{
			ListingID:     id,
			Title:         doc.Title,
			City:          doc.City,
			OwnershipType: doc.OwnershipType,
			ListingType:   doc.ListingType,
			Price:         doc.Price,
			MonthlyRent:   doc.MonthlyRent,
		})
	}

	h.logger.Info("eligible listings found", map[string]interface{}{
		"applicantId": input.ApplicantID,
		"returned":    len(listings),
		"totalHits":   sr.Hits.Total.Value,
		"tookMs":      sr.Took,
	})

	return &Output{Listings: listings, TotalHits: sr.Hits.Total.Value}, nil
}

func (h *Handler) toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrSearchTimeout):
		return apperrors.NewSearchTimeoutError(h.config.Index)
	case errors.Is(err, ErrIndexNotFound):
		return apperrors.NewIndexNotFoundError(h.config.Index)
	case errors.Is(err, ErrElasticsearchConnectionFailed):
		return apperrors.NewElasticsearchConnectionFailedError(err)
	case errors.Is(err, ErrSearchQueryFailed):
		return apperrors.NewSearchQueryFailedError(h.config.Index, err)
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
