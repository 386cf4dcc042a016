package curriculum

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"
)

// RecordSource yields the raw rows of a curriculum table.
type RecordSource interface {
	Name() string
	Records(ctx context.Context) ([]Record, error)
}

// Option customizes Build and Load.
type Option func(*options)

type options struct {
	location *time.Location
}

// WithLocation sets the time zone end dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// Program is the immutable snapshot of a whole curriculum. It is built once
// and only read afterwards, so it may be shared between goroutines.
type Program struct {
	source    string
	courses   []*Course
	semesters []*Semester
	byNumber  map[int]*Semester
	skipped   int
}

// Load reads every record from src and builds the program. Source failures
// are returned; row and field failures never are.
func Load(ctx context.Context, src RecordSource, opts ...Option) (*Program, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load curriculum from %s: %w", src.Name(), err)
	}

	p := Build(records, opts...)
	p.source = src.Name()
	return p, nil
}

// Build normalizes records into courses and groups them by semester.
// Rows without a usable semester number are skipped and counted.
func Build(records []Record, opts ...Option) *Program {
	o := options{location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Program{
		courses:  make([]*Course, 0, len(records)),
		byNumber: make(map[int]*Semester),
	}

	for i, rec := range records {
		number, ok := ParseSemester(rec.Semester)
		if !ok {
			p.skipped++
			continue
		}

		course := NewCourse(i, rec, number, o.location)
		p.courses = append(p.courses, course)

		sem, exists := p.byNumber[number]
		if !exists {
			sem = NewSemester(number)
			p.byNumber[number] = sem
			p.semesters = append(p.semesters, sem)
		}
		sem.Add(course)
	}

	sort.Slice(p.semesters, func(i, j int) bool {
		return p.semesters[i].Number < p.semesters[j].Number
	})

	return p
}

// Source names where the program was loaded from.
func (p *Program) Source() string { return p.source }

// Skipped is the number of rows dropped for a missing or invalid semester.
func (p *Program) Skipped() int { return p.skipped }

// Courses returns a copy of all courses in source order. The courses
// themselves are shared and must not be modified.
func (p *Program) Courses() []*Course { return slices.Clone(p.courses) }

// Semesters returns a copy of the semester list in ascending order.
// The semesters are shared and must not be modified.
func (p *Program) Semesters() []*Semester { return slices.Clone(p.semesters) }

// Semester looks up a semester by number.
func (p *Program) Semester(number int) (*Semester, bool) {
	s, ok := p.byNumber[number]
	return s, ok
}

// OverallAverageGrade averages every recorded grade of the program.
func (p *Program) OverallAverageGrade() *float64 {
	return averageGrade(p.courses)
}

// OverallProgressPercent is the passed share of all courses in percent.
func (p *Program) OverallProgressPercent() float64 {
	return progressPercent(p.courses)
}

// PassedCount counts the passed courses of the program.
func (p *Program) PassedCount() int {
	return passedCount(p.courses)
}

// OpenCourses returns every course not yet passed.
func (p *Program) OpenCourses() []*Course {
	return filterCourses(p.courses, false)
}

// EndDate is the latest semester end date.
func (p *Program) EndDate() *time.Time {
	var latest *time.Time
	for _, s := range p.semesters {
		end := s.EndDate()
		if end == nil {
			continue
		}
		if latest == nil || end.After(*latest) {
			latest = end
		}
	}
	return latest
}

// RemainingDaysToEnd counts the whole days until the program ends, floored at 0.
func (p *Program) RemainingDaysToEnd(now time.Time) int {
	end := p.EndDate()
	if end == nil {
		return 0
	}
	return DaysUntil(*end, now)
}
