package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/middleware"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/response"
	"github.com/stemsi/gdeval-backend/internal/service"
	"github.com/stemsi/gdeval-backend/internal/validator"
)

// GDSessionHandler handles GD session endpoints.
type GDSessionHandler struct {
	sessionService *service.GDSessionService
	log            zerolog.Logger
}

// NewGDSessionHandler creates a new GDSessionHandler.
func NewGDSessionHandler(sessionService *service.GDSessionService, log zerolog.Logger) *GDSessionHandler {
	return &GDSessionHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "gd_session_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/sessions
// Students get the sessions they take part in or evaluate; instructors get
// the sessions they created.
func (h *GDSessionHandler) List(c *gin.Context) {
	sessions, err := h.sessionService.ListForUser(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

// Create godoc
// POST /api/v1/sessions
// Schedules a GD session from comma-separated participant and evaluator lists.
func (h *GDSessionHandler) Create(c *gin.Context) {
	var req model.CreateGDSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	gd, err := h.sessionService.Create(c.Request.Context(), req, middleware.GetActor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": gd})
}

// Get godoc
// GET /api/v1/sessions/:id
func (h *GDSessionHandler) Get(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	gd, err := h.sessionService.GetByID(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": gd})
}
