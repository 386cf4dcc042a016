package service

import (
	"context"
	"time"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/model"
)

// ── Mock CurriculumRowRepository ──

type mockCurriculumRowRepo struct {
	rows       []model.CurriculumRow
	replaceErr error
	replaced   int
}

func (m *mockCurriculumRowRepo) List(_ context.Context) ([]model.CurriculumRow, error) {
	return m.rows, nil
}

func (m *mockCurriculumRowRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func (m *mockCurriculumRowRepo) ReplaceAll(_ context.Context, rows []model.CurriculumRow) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.rows = rows
	m.replaced++
	return nil
}

// ── stub source ──

type stubSource struct {
	records []curriculum.Record
	err     error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Records(_ context.Context) ([]curriculum.Record, error) {
	return s.records, s.err
}

// ── fixtures ──

func testRecords() []curriculum.Record {
	return []curriculum.Record{
		{Name: "Mathe I", Semester: "1", Grade: "1,7", EndDate: "31.01.2024", Passed: "ja"},
		{Name: "Programmierung", Semester: "1", Grade: nil, EndDate: "15.02.2024", Passed: "nein"},
		{Name: "Mathe II", Semester: "2", Grade: "2,3", EndDate: "31.07.2024", Passed: "bestanden"},
		{Name: "Datenbanken", Semester: "2", Grade: "", EndDate: "30.09.2024", Passed: 0},
		{Name: "Statistik", Semester: "2", Grade: "", EndDate: "20.09.2024", Passed: "nein"},
		{Name: "Kaputt", Semester: "abc", Grade: "", EndDate: "", Passed: ""},
		{Name: "Abschluss", Semester: 3.0, Grade: "", EndDate: "", Passed: ""},
	}
}

func testProgram() *curriculum.Program {
	return curriculum.Build(testRecords(), curriculum.WithLocation(time.UTC))
}

// testNow is 29 days before the end of semester 2
var testNow = time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
