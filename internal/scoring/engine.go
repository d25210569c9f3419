// Package scoring aggregates peer and instructor evaluations into final scores.
//
// Peer consensus and instructor judgment carry equal weight: the final score
// for each criterion is the midpoint of the peer mean and the instructor score,
// however many peers took part. Only the first instructor evaluation in store
// order is used. Missing groups contribute zero rather than an absent value,
// so callers can always sum and average the results.
package scoring

import (
	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
)

// Calculate computes the score breakdown of studentID in sessionID from
// evaluations, which may contain records for other sessions and students.
// It never fails; with no matching records every score is zero.
func Calculate(evaluations []model.Evaluation, sessionID uuid.UUID, studentID string) model.ScoreBreakdown {
	var (
		peers      []model.Criteria
		instructor *model.Criteria
	)
	for i := range evaluations {
		e := &evaluations[i]
		if e.GDSessionID != sessionID || e.StudentID != studentID {
			continue
		}
		switch e.EvaluatorRole {
		case model.RoleStudent:
			peers = append(peers, e.Criteria)
		case model.RoleInstructor:
			if instructor == nil {
				instructor = &e.Criteria
			}
		}
	}

	var out model.ScoreBreakdown
	out.PeerAverage = Mean(peers)
	if instructor != nil {
		out.InstructorScores = *instructor
	}
	for _, c := range model.AllCriteria {
		out.FinalScores.Set(c, (out.PeerAverage.Get(c)+out.InstructorScores.Get(c))/2)
	}
	return out
}

// Mean returns the per-criterion arithmetic mean of sets, or all zeros when
// sets is empty.
func Mean(sets []model.Criteria) model.Criteria {
	var mean model.Criteria
	if len(sets) == 0 {
		return mean
	}
	n := float64(len(sets))
	for _, c := range model.AllCriteria {
		var sum float64
		for _, s := range sets {
			sum += s.Get(c)
		}
		mean.Set(c, sum/n)
	}
	return mean
}

// Overall is the roll-up of a criteria set: the mean of its five scores.
func Overall(c model.Criteria) float64 {
	var sum float64
	for _, name := range model.AllCriteria {
		sum += c.Get(name)
	}
	return sum / float64(len(model.AllCriteria))
}

// Count returns how many evaluations target studentID in sessionID.
func Count(evaluations []model.Evaluation, sessionID uuid.UUID, studentID string) int {
	n := 0
	for i := range evaluations {
		if evaluations[i].GDSessionID == sessionID && evaluations[i].StudentID == studentID {
			n++
		}
	}
	return n
}
