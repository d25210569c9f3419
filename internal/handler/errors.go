package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/response"
	"github.com/stemsi/gdeval-backend/internal/service"
)

// serviceErrors maps domain errors to their HTTP status and response code.
var serviceErrors = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrNotAuthenticated, http.StatusUnauthorized, response.ErrNotAuthenticated},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrNotAuthorized, http.StatusForbidden, response.ErrNotAuthorized},
	{service.ErrSessionNotFound, http.StatusNotFound, response.ErrSessionNotFound},
	{service.ErrUserNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrInvalidSubject, http.StatusUnprocessableEntity, response.ErrInvalidSubject},
	{service.ErrInvalidSession, http.StatusBadRequest, response.ErrInvalidSession},
	{service.ErrInvalidExport, http.StatusBadRequest, response.ErrInvalidExport},
	{service.ErrProfileIncomplete, http.StatusBadRequest, response.ErrProfileIncomplete},
	{service.ErrEmailTaken, http.StatusConflict, response.ErrEmailTaken},
	{service.ErrRollNumberTaken, http.StatusConflict, response.ErrRollNumberTaken},
}

// failService writes the error response for err. Unknown errors are logged and
// reported as INTERNAL_ERROR.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}
	log.Error().Err(err).
		Str("request_id", response.RequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// sessionIDParam parses the :id path parameter, writing INVALID_ID on failure.
func sessionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
