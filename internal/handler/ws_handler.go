package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/middleware"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/response"
	"github.com/stemsi/gdeval-backend/internal/service"
	ws "github.com/stemsi/gdeval-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ResultsListener delivers a session's results every time they are recomputed.
// The returned func stops delivery and closes the channel.
type ResultsListener interface {
	Listen(ctx context.Context, sessionID uuid.UUID) (<-chan *model.SessionResults, func(), error)
}

// WSHandler streams live session results to instructors.
type WSHandler struct {
	resultsService *service.ResultsService
	listener       ResultsListener
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(resultsService *service.ResultsService, listener ResultsListener, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		resultsService: resultsService,
		listener:       listener,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// SessionResultsStream godoc
// WS /ws/v1/sessions/:id/results?token=...
// Sends the current results sheet on connect, then a fresh sheet after every
// recomputation. Clients may send {"action":"ping"} to keep the connection up.
func (h *WSHandler) SessionResultsStream(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe before reading the current sheet so no recomputation in
	// between goes unseen.
	updates, stop, err := h.listener.Listen(ctx, sessionID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	defer stop()

	initial, err := h.resultsService.SessionResults(ctx, sessionID, actor)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Str("session_id", sessionID.String()).
		Str("user_id", actor.UserID.String()).
		Logger()
	wsLog.Info().Msg("Instructor connected")

	if err := conn.WriteTyped(ws.ResultsEvent{Event: ws.EventResults, Results: initial}); err != nil {
		wsLog.Debug().Err(err).Msg("Initial write failed")
		return
	}

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case results, ok := <-updates:
				if !ok {
					return
				}
				if err := conn.WriteTyped(ws.ResultsEvent{Event: ws.EventResults, Results: results}); err != nil {
					wsLog.Debug().Err(err).Msg("Push failed")
					return
				}
			}
		}
	}()

	for {
		var msg ws.RequestEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			_ = conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}
