package metrics

import (
	"property-eligibility-workers/internal/eligibility"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	EligibilityEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_evaluations_total",
			Help: "Evaluations by qualification level",
		},
		[]string{"level"},
	)

	EligibilityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eligibility_score",
			Help:    "Distribution of overall eligibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	EligibilityReasonCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_reason_codes_total",
			Help: "Requirement and suggestion codes emitted by evaluations",
		},
		[]string{"kind", "code"},
	)
)

// RecordEvaluation counts one evaluation outcome.
func RecordEvaluation(result eligibility.Result) {
	EligibilityEvaluations.WithLabelValues(string(result.QualificationLevel())).Inc()
	EligibilityScore.Observe(float64(result.OverallScore))
	for _, code := range result.Requirements {
		EligibilityReasonCodes.WithLabelValues("requirement", string(code)).Inc()
	}
	for _, code := range result.Suggestions {
		EligibilityReasonCodes.WithLabelValues("suggestion", string(code)).Inc()
	}
}
