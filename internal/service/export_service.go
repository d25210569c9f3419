package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const exportSheet = "Results"

// ExportService renders session results as downloadable spreadsheets.
type ExportService struct {
	results *ResultsService
	users   repository.UserStore
	log     zerolog.Logger
	now     func() time.Time
}

// NewExportService creates a new ExportService.
func NewExportService(results *ResultsService, users repository.UserStore, log zerolog.Logger) *ExportService {
	return &ExportService{
		results: results,
		users:   users,
		log:     log.With().Str("component", "export_service").Logger(),
		now:     time.Now,
	}
}

type exportRow struct {
	roll   string
	name   string
	marks  map[uuid.UUID]float64
	sum    float64
	joined int
}

// Export builds a report with one row per participant across the requested
// sessions. Columns follow the canonical field order regardless of the order
// fields were requested in.
func (s *ExportService) Export(ctx context.Context, req model.ExportRequest, actor *model.Actor) (*model.ExportFile, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !actor.IsInstructor() {
		return nil, ErrNotAuthorized
	}
	if len(req.SessionIDs) == 0 || len(req.Fields) == 0 {
		return nil, fmt.Errorf("%w: at least one session and one field are required", ErrInvalidExport)
	}
	for _, f := range req.Fields {
		if !slices.Contains(model.ExportFields, f) {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidExport, f)
		}
	}
	if req.Format != model.ExportFormatXLSX && req.Format != model.ExportFormatCSV {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidExport, req.Format)
	}

	ids := make([]uuid.UUID, 0, len(req.SessionIDs))
	for _, id := range req.SessionIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	sheets := make([]*model.SessionResults, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			res, err := s.results.SessionResults(gctx, id, actor)
			if err != nil {
				return err
			}
			sheets[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table, err := s.buildTable(ctx, req.Fields, sheets)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Format("20060102-150405")
	file := &model.ExportFile{Filename: "gd-results-" + stamp + "." + string(req.Format)}
	switch req.Format {
	case model.ExportFormatCSV:
		file.ContentType = "text/csv"
		file.Content, err = renderCSV(table)
	default:
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		file.Content, err = renderXLSX(table)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Format, err)
	}

	s.log.Info().
		Int("sessions", len(ids)).
		Int("rows", len(table)-1).
		Str("format", string(req.Format)).
		Msg("Export generated")
	return file, nil
}

// buildTable returns the header row followed by one row per participant.
// Numeric cells are float64, missing marks are nil.
func (s *ExportService) buildTable(ctx context.Context, fields []model.ExportField, sheets []*model.SessionResults) ([][]any, error) {
	var (
		order []string
		rows  = make(map[string]*exportRow)
	)
	for _, sheet := range sheets {
		for _, st := range sheet.Students {
			row, ok := rows[st.RollNumber]
			if !ok {
				row = &exportRow{roll: st.RollNumber, marks: make(map[uuid.UUID]float64)}
				rows[st.RollNumber] = row
				order = append(order, st.RollNumber)
			}
			if row.name == "" {
				row.name = st.Name
			}
			row.marks[sheet.SessionID] = st.Overall
			row.sum += st.Overall
			row.joined++
		}
	}

	users, err := s.users.ListByRollNumbers(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	profiles := make(map[string]*model.StudentProfile, len(users))
	for _, u := range users {
		profiles[u.RollNumber()] = u.Student
	}

	var header []any
	for _, f := range model.ExportFields {
		if !slices.Contains(fields, f) {
			continue
		}
		if f == model.ExportFieldSessionMarks {
			for _, sheet := range sheets {
				header = append(header, fmt.Sprintf("%s (%s)", sheet.Topic, sheet.Date.Format(model.DateLayout)))
			}
			continue
		}
		header = append(header, exportHeaders[f])
	}

	table := [][]any{header}
	for _, roll := range order {
		row := rows[roll]
		p := profiles[roll]
		if p == nil {
			p = &model.StudentProfile{RollNumber: roll}
		}

		var cells []any
		for _, f := range model.ExportFields {
			if !slices.Contains(fields, f) {
				continue
			}
			switch f {
			case model.ExportFieldName:
				cells = append(cells, row.name)
			case model.ExportFieldRollNumber:
				cells = append(cells, roll)
			case model.ExportFieldSection:
				cells = append(cells, p.Section)
			case model.ExportFieldDepartment:
				cells = append(cells, p.Department)
			case model.ExportFieldYear:
				cells = append(cells, p.Year)
			case model.ExportFieldSessionMarks:
				for _, sheet := range sheets {
					if v, ok := row.marks[sheet.SessionID]; ok {
						cells = append(cells, v)
					} else {
						cells = append(cells, nil)
					}
				}
			case model.ExportFieldFinalScore:
				cells = append(cells, row.sum/float64(row.joined))
			}
		}
		table = append(table, cells)
	}
	return table, nil
}

var exportHeaders = map[model.ExportField]string{
	model.ExportFieldName:       "Name",
	model.ExportFieldRollNumber: "Roll Number",
	model.ExportFieldSection:    "Section",
	model.ExportFieldDepartment: "Department",
	model.ExportFieldYear:       "Year",
	model.ExportFieldFinalScore: "Final Score",
}

func renderCSV(table [][]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range table {
		record := make([]string, len(row))
		for i, cell := range row {
			switch v := cell.(type) {
			case nil:
			case float64:
				record[i] = strconv.FormatFloat(v, 'f', 2, 64)
			default:
				record[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderXLSX(table [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
