package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of a GD session's calendar date.
const DateLayout = "2006-01-02"

// GDSession is a scheduled group-discussion exercise. Participants and
// Evaluators hold roll numbers and never change after creation.
type GDSession struct {
	ID           uuid.UUID `json:"id"`
	Topic        string    `json:"topic"`
	Details      string    `json:"details"`
	GroupName    string    `json:"group_name"`
	GroupNumber  string    `json:"group_number"`
	Date         time.Time `json:"date"`
	Participants []string  `json:"participants"`
	Evaluators   []string  `json:"evaluators"`
	CreatedBy    uuid.UUID `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasParticipant reports whether rollNumber is one of the session's participants.
func (s *GDSession) HasParticipant(rollNumber string) bool {
	return slices.Contains(s.Participants, rollNumber)
}

// HasEvaluator reports whether rollNumber is one of the session's peer evaluators.
func (s *GDSession) HasEvaluator(rollNumber string) bool {
	return slices.Contains(s.Evaluators, rollNumber)
}

// ParseRollNumbers turns a comma-separated list into roll numbers. Entries are
// trimmed and blanks dropped. Beyond that, a repeated roll number is kept only
// at its first occurrence so each list stores a member once.
func ParseRollNumbers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CreateGDSessionRequest is the payload for creating a GD session.
// Participants and Evaluators are free text, e.g. "CS2001, CS2002".
type CreateGDSessionRequest struct {
	Topic        string `json:"topic" binding:"required,min=2,max=200"`
	Details      string `json:"details" binding:"required,max=2000"`
	GroupName    string `json:"group_name" binding:"required,max=100"`
	GroupNumber  string `json:"group_number" binding:"required,max=20"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	Participants string `json:"participants" binding:"required,roll_list"`
	Evaluators   string `json:"evaluators" binding:"required"`
}

// GDSessionsForUser splits the sessions visible on a user's dashboard.
type GDSessionsForUser struct {
	Participating []GDSession `json:"participating"`
	Evaluating    []GDSession `json:"evaluating"`
}
