package curriculum

import "time"

// Source column names of the curriculum table.
const (
	ColumnName     = "Kurs"
	ColumnSemester = "Semester"
	ColumnGrade    = "Note"
	ColumnEndDate  = "Enddatum"
	ColumnPassed   = "Bestanden"
)

// Columns lists the required columns in their canonical order.
var Columns = []string{ColumnName, ColumnSemester, ColumnGrade, ColumnEndDate, ColumnPassed}

// startOffsetDays approximates a six month course duration.
const startOffsetDays = 182

// Record is one raw, uninterpreted curriculum row. Cells hold whatever
// scalar the source produced (string, number, time.Time or nil).
type Record struct {
	Name     any
	Semester any
	Grade    any
	EndDate  any
	Passed   any
}

// Course is one normalized curriculum row.
type Course struct {
	Position int // index of the row in its source
	Name     string
	Semester int
	Grade    *float64
	EndDate  *time.Time
	Passed   bool
}

// NewCourse normalizes every field of rec independently; no field failure
// prevents construction.
func NewCourse(position int, rec Record, semester int, loc *time.Location) *Course {
	return &Course{
		Position: position,
		Name:     CellText(rec.Name),
		Semester: semester,
		Grade:    ParseGrade(rec.Grade),
		EndDate:  ParseDate(rec.EndDate, loc),
		Passed:   ParsePassed(rec.Passed),
	}
}

// StartDate is the end date minus 182 days, or nil without an end date.
func (c *Course) StartDate() *time.Time {
	if c.EndDate == nil {
		return nil
	}
	start := c.EndDate.AddDate(0, 0, -startOffsetDays)
	return &start
}

// RemainingDays returns the whole days left until the course ends, never negative.
func (c *Course) RemainingDays(now time.Time) int {
	if c.EndDate == nil {
		return 0
	}
	return DaysUntil(*c.EndDate, now)
}
