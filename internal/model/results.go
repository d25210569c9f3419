package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentResult is one participant's row on a session's results sheet.
type StudentResult struct {
	RollNumber string `json:"roll_number"`
	// Name is empty when no account is registered under RollNumber.
	Name string `json:"name"`
	ScoreBreakdown
	Overall float64 `json:"overall"`
	// EvaluationCount is the number of evaluations received.
	EvaluationCount int `json:"evaluation_count"`
}

// SessionResults is the full results sheet of a GD session.
type SessionResults struct {
	SessionID  uuid.UUID       `json:"session_id"`
	Topic      string          `json:"topic"`
	Date       time.Time       `json:"date"`
	Students   []StudentResult `json:"students"`
	ComputedAt time.Time       `json:"computed_at"`
}

// AnalyticsFilter narrows the student analytics table. Empty fields match everything.
type AnalyticsFilter struct {
	Section    string   `form:"section" binding:"omitempty,max=20"`
	Department string   `form:"department" binding:"omitempty,max=100"`
	Year       string   `form:"year" binding:"omitempty,max=10"`
	MinScore   *float64 `form:"min_score" binding:"omitempty,min=0,max=10"`
}

// SessionScore is a student's overall score in one session.
type SessionScore struct {
	SessionID uuid.UUID `json:"session_id"`
	Topic     string    `json:"topic"`
	Date      time.Time `json:"date"`
	Overall   float64   `json:"overall"`
}

// StudentAnalytics summarizes a student's performance across sessions.
type StudentAnalytics struct {
	RollNumber   string         `json:"roll_number"`
	Name         string         `json:"name"`
	Department   string         `json:"department"`
	Section      string         `json:"section"`
	Year         string         `json:"year"`
	Sessions     []SessionScore `json:"sessions"`
	AverageScore float64        `json:"average_score"`
}

// ExportField selects a column group in an export.
type ExportField string

const (
	ExportFieldName         ExportField = "name"
	ExportFieldRollNumber   ExportField = "roll_number"
	ExportFieldSection      ExportField = "section"
	ExportFieldDepartment   ExportField = "department"
	ExportFieldYear         ExportField = "year"
	ExportFieldSessionMarks ExportField = "session_marks"
	ExportFieldFinalScore   ExportField = "final_score"
)

// ExportFields lists every export column group in output order.
var ExportFields = []ExportField{
	ExportFieldName,
	ExportFieldRollNumber,
	ExportFieldSection,
	ExportFieldDepartment,
	ExportFieldYear,
	ExportFieldSessionMarks,
	ExportFieldFinalScore,
}

// ExportFormat is the file type of an export.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

// ExportRequest is the payload for downloading a report.
type ExportRequest struct {
	SessionIDs []uuid.UUID   `json:"session_ids" binding:"required,min=1,max=50"`
	Fields     []ExportField `json:"fields" binding:"required,min=1,dive,oneof=name roll_number section department year session_marks final_score"`
	Format     ExportFormat  `json:"format" binding:"required,oneof=xlsx csv"`
}

// ExportFile is a rendered report ready to be sent to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
