package model

import (
	"time"

	"github.com/google/uuid"
)

// Criterion names one dimension of the rubric.
type Criterion string

const (
	CriterionArticulation           Criterion = "articulation"
	CriterionRelevance              Criterion = "relevance"
	CriterionLeadership             Criterion = "leadership"
	CriterionNonVerbalCommunication Criterion = "non_verbal_communication"
	CriterionImpression             Criterion = "impression"
)

// AllCriteria lists the rubric in display order.
var AllCriteria = []Criterion{
	CriterionArticulation,
	CriterionRelevance,
	CriterionLeadership,
	CriterionNonVerbalCommunication,
	CriterionImpression,
}

// Rubric bounds enforced on submitted scores.
const (
	MinScore = 1
	MaxScore = 10
)

// Criteria is one set of rubric scores. Values outside [MinScore, MaxScore]
// are rejected at the API boundary but carried through everywhere else.
type Criteria struct {
	Articulation           float64 `json:"articulation"`
	Relevance              float64 `json:"relevance"`
	Leadership             float64 `json:"leadership"`
	NonVerbalCommunication float64 `json:"non_verbal_communication"`
	Impression             float64 `json:"impression"`
}

// Get returns the score for c.
func (cr Criteria) Get(c Criterion) float64 {
	switch c {
	case CriterionArticulation:
		return cr.Articulation
	case CriterionRelevance:
		return cr.Relevance
	case CriterionLeadership:
		return cr.Leadership
	case CriterionNonVerbalCommunication:
		return cr.NonVerbalCommunication
	case CriterionImpression:
		return cr.Impression
	}
	return 0
}

// Set stores v as the score for c.
func (cr *Criteria) Set(c Criterion, v float64) {
	switch c {
	case CriterionArticulation:
		cr.Articulation = v
	case CriterionRelevance:
		cr.Relevance = v
	case CriterionLeadership:
		cr.Leadership = v
	case CriterionNonVerbalCommunication:
		cr.NonVerbalCommunication = v
	case CriterionImpression:
		cr.Impression = v
	}
}

// Evaluation is one evaluator's scores for one participant in one session.
// StudentID is the participant's roll number; EvaluatorID is a user id.
type Evaluation struct {
	ID            uuid.UUID `json:"id"`
	GDSessionID   uuid.UUID `json:"gd_session_id"`
	StudentID     string    `json:"student_id"`
	EvaluatorID   uuid.UUID `json:"evaluator_id"`
	EvaluatorRole Role      `json:"evaluator_role"`
	Criteria      Criteria  `json:"criteria"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScoreBreakdown is the aggregated result for one participant.
type ScoreBreakdown struct {
	PeerAverage      Criteria `json:"peer_average"`
	InstructorScores Criteria `json:"instructor_scores"`
	FinalScores      Criteria `json:"final_scores"`
}

// SubmitEvaluationRequest is the payload for scoring a participant.
type SubmitEvaluationRequest struct {
	Articulation           float64 `json:"articulation" binding:"required,min=1,max=10"`
	Relevance              float64 `json:"relevance" binding:"required,min=1,max=10"`
	Leadership             float64 `json:"leadership" binding:"required,min=1,max=10"`
	NonVerbalCommunication float64 `json:"non_verbal_communication" binding:"required,min=1,max=10"`
	Impression             float64 `json:"impression" binding:"required,min=1,max=10"`
}

// Criteria converts the request into a criteria set.
func (r SubmitEvaluationRequest) Criteria() Criteria {
	return Criteria{
		Articulation:           r.Articulation,
		Relevance:              r.Relevance,
		Leadership:             r.Leadership,
		NonVerbalCommunication: r.NonVerbalCommunication,
		Impression:             r.Impression,
	}
}
