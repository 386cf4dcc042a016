package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
)

// ── export errors ──

var (
	ErrExportEmpty        = errors.New("curriculum has no courses to export")
	ErrExportGenerateFail = errors.New("failed to generate Excel file")
)

const (
	overviewSheet = "Übersicht"
	germanDate    = "02.01.2006"
)

// ExportService renders the dashboard as an Excel workbook.
//
// Layout:
//   - sheet "Übersicht": the program figures as label/value rows
//   - sheet "Semester N" per semester: one row per course, then the semester summary
//
// The workbook is returned as a buffer; the handler sets the response headers.
type ExportService interface {
	ExportDashboard(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	program   *curriculum.Program
	dashboard DashboardService
	clock     curriculum.Clock
	logger    *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(
	program *curriculum.Program,
	dashboard DashboardService,
	clock curriculum.Clock,
	logger *zap.Logger,
) ExportService {
	return &exportService{program: program, dashboard: dashboard, clock: clock, logger: logger}
}

func (s *exportService) ExportDashboard(ctx context.Context) (*bytes.Buffer, string, error) {
	if len(s.program.Courses()) == 0 {
		return nil, "", ErrExportEmpty
	}
	now := s.clock.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return nil, "", fmt.Errorf("f.SetSheetName: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})

	// overview
	pv := s.dashboard.ProgramView(ctx)
	overview := [][]interface{}{
		{"Kennzahl", "Wert"},
		{"Quelle", pv.Source},
		{"Gesamtfortschritt (%)", pv.ProgressPercent},
		{"Durchschnittsnote", gradeCell(pv.AverageGrade)},
		{"Bestandene Kurse", pv.PassedCount},
		{"Offene Kurse", pv.OpenCount},
		{"Kurse gesamt", pv.TotalCount},
		{"Semester", pv.SemesterCount},
		{"Studienende", dateCell(s.program.EndDate())},
		{"Verbleibende Tage", pv.RemainingDays},
		{"Übersprungene Zeilen", pv.SkippedRows},
		{"Stand", now.Format(germanDate)},
	}
	if err := writeRows(f, overviewSheet, 1, overview); err != nil {
		return nil, "", err
	}
	f.SetCellStyle(overviewSheet, "A1", "B1", headerStyle)
	f.SetColWidth(overviewSheet, "A", "A", 26)
	f.SetColWidth(overviewSheet, "B", "B", 36)

	// one sheet per semester
	for _, sem := range s.program.Semesters() {
		sheet := fmt.Sprintf("Semester %d", sem.Number)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, "", fmt.Errorf("f.NewSheet(%s): %w", sheet, err)
		}

		rows := [][]interface{}{{"Kurs", "Note", "Enddatum", "Bestanden", "Verbleibende Tage"}}
		for _, c := range sem.Courses {
			rows = append(rows, []interface{}{
				c.Name,
				gradeCell(c.Grade),
				dateCell(c.EndDate),
				passedCell(c.Passed),
				c.RemainingDays(now),
			})
		}

		view, err := s.dashboard.SemesterView(ctx, sem.Number)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows,
			[]interface{}{},
			[]interface{}{"Fortschritt (%)", view.ProgressPercent},
			[]interface{}{"Bestanden", fmt.Sprintf("%d / %d", view.PassedCount, view.TotalCount)},
			[]interface{}{"Durchschnittsnote", gradeCell(view.AverageGrade)},
			[]interface{}{"Semesterende", dateCell(sem.EndDate())},
			[]interface{}{"Verbleibende Tage", view.RemainingDays},
			[]interface{}{"Tage pro offenem Kurs", view.EvenPaceDays},
			[]interface{}{fmt.Sprintf("Tage pro Kurs bei %d Kursen", view.AcceleratedCourseLoad), view.AcceleratedPaceDays},
		)
		if err := writeRows(f, sheet, 1, rows); err != nil {
			return nil, "", err
		}
		f.SetCellStyle(sheet, "A1", "E1", headerStyle)
		f.SetColWidth(sheet, "A", "A", 36)
		f.SetColWidth(sheet, "B", "E", 18)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write workbook", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("studienfortschritt_%s.xlsx", now.Format("20060102"))
	return buf, filename, nil
}

// ── helpers ──

func writeRows(f *excelize.File, sheet string, firstRow int, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, firstRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow(%s, %s): %w", sheet, cell, err)
		}
	}
	return nil
}

func gradeCell(g *float64) interface{} {
	if g == nil {
		return ""
	}
	return *g
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(germanDate)
}

func passedCell(passed bool) string {
	if passed {
		return "ja"
	}
	return "nein"
}
