package curriculum

import "time"

// Semester groups the courses sharing one semester number.
// Once a Program is built its semesters are read-only.
type Semester struct {
	Number  int
	Courses []*Course
}

// NewSemester creates an empty semester.
func NewSemester(number int) *Semester {
	return &Semester{Number: number}
}

// Add appends a course. It neither deduplicates nor checks the course's
// semester number.
func (s *Semester) Add(c *Course) {
	s.Courses = append(s.Courses, c)
}

// AverageGrade is the mean of all recorded grades rounded to two places,
// or nil when no course has a grade.
func (s *Semester) AverageGrade() *float64 {
	return averageGrade(s.Courses)
}

// PassedCount counts the passed courses.
func (s *Semester) PassedCount() int {
	return passedCount(s.Courses)
}

// ProgressPercent is the passed share in percent, one decimal place.
// An empty semester reports 0.
func (s *Semester) ProgressPercent() float64 {
	return progressPercent(s.Courses)
}

// OpenCourses returns the courses not yet passed in insertion order.
func (s *Semester) OpenCourses() []*Course {
	return filterCourses(s.Courses, false)
}

// PassedCourses returns the passed courses in insertion order.
func (s *Semester) PassedCourses() []*Course {
	return filterCourses(s.Courses, true)
}

// EndDate is the latest course end date, or nil.
func (s *Semester) EndDate() *time.Time {
	return latestEndDate(s.Courses)
}

// RemainingDaysToEnd counts the whole days until EndDate, floored at 0.
func (s *Semester) RemainingDaysToEnd(now time.Time) int {
	end := s.EndDate()
	if end == nil {
		return 0
	}
	return DaysUntil(*end, now)
}

// ── shared aggregations ──

func averageGrade(courses []*Course) *float64 {
	var sum float64
	var n int
	for _, c := range courses {
		if c.Grade == nil {
			continue
		}
		sum += *c.Grade
		n++
	}
	if n == 0 {
		return nil
	}
	avg := RoundTo(sum/float64(n), 2)
	return &avg
}

func passedCount(courses []*Course) int {
	n := 0
	for _, c := range courses {
		if c.Passed {
			n++
		}
	}
	return n
}

func progressPercent(courses []*Course) float64 {
	if len(courses) == 0 {
		return 0
	}
	return RoundTo(float64(passedCount(courses))/float64(len(courses))*100, 1)
}

func filterCourses(courses []*Course, passed bool) []*Course {
	out := make([]*Course, 0, len(courses))
	for _, c := range courses {
		if c.Passed == passed {
			out = append(out, c)
		}
	}
	return out
}

func latestEndDate(courses []*Course) *time.Time {
	var latest *time.Time
	for _, c := range courses {
		if c.EndDate == nil {
			continue
		}
		if latest == nil || c.EndDate.After(*latest) {
			latest = c.EndDate
		}
	}
	if latest == nil {
		return nil
	}
	t := *latest
	return &t
}
