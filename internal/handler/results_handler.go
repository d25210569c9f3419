package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/middleware"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/response"
	"github.com/stemsi/gdeval-backend/internal/service"
	"github.com/stemsi/gdeval-backend/internal/validator"
)

// ResultsHandler serves results sheets, analytics and report downloads.
type ResultsHandler struct {
	resultsService   *service.ResultsService
	analyticsService *service.AnalyticsService
	exportService    *service.ExportService
	log              zerolog.Logger
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(
	resultsService *service.ResultsService,
	analyticsService *service.AnalyticsService,
	exportService *service.ExportService,
	log zerolog.Logger,
) *ResultsHandler {
	return &ResultsHandler{
		resultsService:   resultsService,
		analyticsService: analyticsService,
		exportService:    exportService,
		log:              log.With().Str("component", "results_handler").Logger(),
	}
}

// SessionResults godoc
// GET /api/v1/sessions/:id/results
// Returns the score breakdown of every participant.
func (h *ResultsHandler) SessionResults(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	results, err := h.resultsService.SessionResults(c.Request.Context(), id, middleware.GetActor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// MyResult godoc
// GET /api/v1/sessions/:id/my-result
// Returns the calling student's own breakdown.
func (h *ResultsHandler) MyResult(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	result, err := h.resultsService.StudentResult(c.Request.Context(), id, middleware.GetActor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// StudentAnalytics godoc
// GET /api/v1/analytics/students?section=&department=&year=&min_score=
// Summarizes each student's overall score across sessions.
func (h *ResultsHandler) StudentAnalytics(c *gin.Context) {
	var filter model.AnalyticsFilter
	if fields := validator.BindQuery(c, &filter); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	students, err := h.analyticsService.Students(c.Request.Context(), filter, middleware.GetActor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// Export godoc
// POST /api/v1/exports
// Streams an xlsx or csv report covering the selected sessions.
func (h *ResultsHandler) Export(c *gin.Context) {
	var req model.ExportRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	file, err := h.exportService.Export(c.Request.Context(), req, middleware.GetActor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}

	h.log.Info().
		Int("sessions", len(req.SessionIDs)).
		Str("format", string(req.Format)).
		Int("bytes", len(file.Content)).
		Msg("Report exported")

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
