package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stemsi/gdeval-backend/internal/model"
)

func exportFixture(t *testing.T) (*fixture, *model.Actor, *model.GDSession, *model.GDSession) {
	t.Helper()
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	f.student(t, "Asha", "A", "A")
	f.student(t, "Bala", "B", "B")

	s1 := f.session(t, prof, "2026-03-01", "A,B", "")
	s2 := f.session(t, prof, "2026-03-08", "A", "")
	for _, sub := range []struct {
		gd    *model.GDSession
		roll  string
		score float64
	}{
		{s1, "A", 8}, {s1, "B", 6}, {s2, "A", 4},
	} {
		_, err := f.evals.Submit(ctx, sub.gd.ID, sub.roll, uniform(sub.score), prof)
		require.NoError(t, err)
	}
	return f, prof, s1, s2
}

func TestExportCSV(t *testing.T) {
	f, prof, s1, s2 := exportFixture(t)

	file, err := f.exports.Export(context.Background(), model.ExportRequest{
		SessionIDs: []uuid.UUID{s1.ID, s2.ID, s1.ID},
		Fields:     []model.ExportField{model.ExportFieldFinalScore, model.ExportFieldName, model.ExportFieldRollNumber, model.ExportFieldSessionMarks},
		Format:     model.ExportFormatCSV,
	}, prof)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Regexp(t, `^gd-results-\d{8}-\d{6}\.csv$`, file.Filename)

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Roll Number", "Topic 2026-03-01 (2026-03-01)", "Topic 2026-03-08 (2026-03-08)", "Final Score"},
		{"Asha", "A", "4.00", "2.00", "3.00"},
		{"Bala", "B", "3.00", "", "3.00"},
	}, records)
}

func TestExportXLSX(t *testing.T) {
	f, prof, s1, _ := exportFixture(t)

	file, err := f.exports.Export(context.Background(), model.ExportRequest{
		SessionIDs: []uuid.UUID{s1.ID},
		Fields:     []model.ExportField{model.ExportFieldRollNumber, model.ExportFieldSection, model.ExportFieldFinalScore},
		Format:     model.ExportFormatXLSX,
	}, prof)
	require.NoError(t, err)
	assert.Contains(t, file.Filename, ".xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Roll Number", "Section", "Final Score"}, rows[0])
	assert.Equal(t, []string{"A", "A", "4"}, rows[1])
	assert.Equal(t, []string{"B", "B", "3"}, rows[2])
}

func TestExportRejectsBadRequests(t *testing.T) {
	f, prof, s1, _ := exportFixture(t)
	ctx := context.Background()
	fields := []model.ExportField{model.ExportFieldName}

	_, err := f.exports.Export(ctx, model.ExportRequest{Fields: fields, Format: model.ExportFormatCSV}, prof)
	assert.ErrorIs(t, err, ErrInvalidExport)

	_, err = f.exports.Export(ctx, model.ExportRequest{SessionIDs: []uuid.UUID{s1.ID}, Fields: []model.ExportField{"grade"}, Format: model.ExportFormatCSV}, prof)
	assert.ErrorIs(t, err, ErrInvalidExport)

	_, err = f.exports.Export(ctx, model.ExportRequest{SessionIDs: []uuid.UUID{s1.ID}, Fields: fields, Format: "pdf"}, prof)
	assert.ErrorIs(t, err, ErrInvalidExport)

	_, err = f.exports.Export(ctx, model.ExportRequest{SessionIDs: []uuid.UUID{s1.ID, uuid.New()}, Fields: fields, Format: model.ExportFormatCSV}, prof)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	student := &model.Actor{UserID: uuid.New(), Role: model.RoleStudent, RollNumber: "A"}
	_, err = f.exports.Export(ctx, model.ExportRequest{SessionIDs: []uuid.UUID{s1.ID}, Fields: fields, Format: model.ExportFormatCSV}, student)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}
