package websocket

import "github.com/stemsi/gdeval-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventResults Event = "results"
	EventPong    Event = "pong"
)

// ResultsEvent carries a full results sheet. It is sent once on connect and
// again after every recomputation.
type ResultsEvent struct {
	Event   Event                 `json:"event"`
	Results *model.SessionResults `json:"results"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
