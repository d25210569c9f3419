package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/middleware"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/response"
	"github.com/stemsi/gdeval-backend/internal/service"
	"github.com/stemsi/gdeval-backend/internal/validator"
)

// EvaluationHandler handles score submission and breakdown endpoints.
type EvaluationHandler struct {
	sessionService    *service.GDSessionService
	evaluationService *service.EvaluationService
	scoreService      *service.ScoreService
	log               zerolog.Logger
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(
	sessionService *service.GDSessionService,
	evaluationService *service.EvaluationService,
	scoreService *service.ScoreService,
	log zerolog.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		sessionService:    sessionService,
		evaluationService: evaluationService,
		scoreService:      scoreService,
		log:               log.With().Str("component", "evaluation_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/sessions/:id/evaluations
// Instructors see every evaluation of the session; students see their own.
func (h *EvaluationHandler) List(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	evals, err := h.evaluationService.ListForSession(c.Request.Context(), id, middleware.GetActor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"evaluations": evals})
}

// Submit godoc
// PUT /api/v1/sessions/:id/evaluations/:student_id
// Records the caller's rubric scores for one participant. Resubmitting
// replaces the caller's earlier scores.
func (h *EvaluationHandler) Submit(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	studentID := strings.TrimSpace(c.Param("student_id"))

	var req model.SubmitEvaluationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.evaluationService.Submit(c.Request.Context(), id, studentID, req.Criteria(), middleware.GetActor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"evaluation": e})
}

// Scores godoc
// GET /api/v1/sessions/:id/scores/:student_id
// Returns the peer average, instructor scores and final blend for one participant.
func (h *EvaluationHandler) Scores(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	studentID := strings.TrimSpace(c.Param("student_id"))

	gd, err := h.sessionService.GetByID(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	if !gd.HasParticipant(studentID) {
		failService(c, h.log, service.ErrInvalidSubject)
		return
	}

	scores, err := h.scoreService.CalculateScores(c.Request.Context(), id, studentID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student_id": studentID, "scores": scores})
}
