package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/response"
)

const healthCheckTimeout = 2 * time.Second

// QueueDepth reports how many results refreshes are waiting.
type QueueDepth interface {
	Len(ctx context.Context) (int64, error)
}

// SystemHandler serves the health check and the public rubric.
type SystemHandler struct {
	queue     QueueDepth
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. queue may be nil.
func NewSystemHandler(queue QueueDepth, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		queue:     queue,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	GoVersion    string `json:"go_version"`
	Goroutines   int    `json:"goroutines"`
	RefreshQueue int64  `json:"refresh_queue"`
}

// Health godoc
// GET /health
// Reports "ok", or "degraded" with 503 when Redis does not answer.
func (h *SystemHandler) Health(c *gin.Context) {
	status := healthStatus{
		Status:     "ok",
		Uptime:     time.Since(h.startTime).Truncate(time.Second).String(),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
	}

	if h.queue != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		n, err := h.queue.Len(ctx)
		if err != nil {
			h.log.Warn().Err(err).Msg("Redis health check failed")
			status.Status = "degraded"
			response.Success(c, http.StatusServiceUnavailable, status)
			return
		}
		status.RefreshQueue = n
	}

	response.Success(c, http.StatusOK, status)
}

type rubricCriterion struct {
	Key   model.Criterion `json:"key"`
	Label string          `json:"label"`
}

var criterionLabels = map[model.Criterion]string{
	model.CriterionArticulation:           "Articulation",
	model.CriterionRelevance:              "Relevance",
	model.CriterionLeadership:             "Leadership",
	model.CriterionNonVerbalCommunication: "Non-verbal communication",
	model.CriterionImpression:             "Impression",
}

// Rubric godoc
// GET /api/v1/public/rubric
// Lists the scoring criteria and the accepted score range.
func (h *SystemHandler) Rubric(c *gin.Context) {
	criteria := make([]rubricCriterion, 0, len(model.AllCriteria))
	for _, cr := range model.AllCriteria {
		criteria = append(criteria, rubricCriterion{Key: cr, Label: criterionLabels[cr]})
	}

	response.Success(c, http.StatusOK, gin.H{
		"criteria":  criteria,
		"min_score": model.MinScore,
		"max_score": model.MaxScore,
	})
}
