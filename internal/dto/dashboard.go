package dto

// DateLayout dates in responses
const DateLayout = "2006-01-02"

// ── dashboard ──

// SemesterOption one entry of the semester selector
type SemesterOption struct {
	Number int    `json:"number"`
	Label  string `json:"label"` // "Semester 3"
}

// OpenCourse a course that still has to be passed
type OpenCourse struct {
	Name          string   `json:"name"`
	Grade         *float64 `json:"grade"`
	EndDate       string   `json:"end_date,omitempty"`
	RemainingDays int      `json:"remaining_days"`
}

// SemesterView per-semester figures
type SemesterView struct {
	Number          int          `json:"number"`
	ProgressPercent float64      `json:"progress_percent"`
	PassedCount     int          `json:"passed_count"`
	TotalCount      int          `json:"total_count"`
	AverageGrade    *float64     `json:"average_grade"`
	EndDate         string       `json:"end_date,omitempty"`
	RemainingDays   int          `json:"remaining_days"`
	OpenCourses     []OpenCourse `json:"open_courses"`
	PassedCourses   []string     `json:"passed_courses"`

	// Days available per open course when spreading the remaining time evenly
	EvenPaceDays int `json:"even_pace_days"`
	// Days per course at the accelerated course load
	AcceleratedPaceDays   int `json:"accelerated_pace_days"`
	AcceleratedCourseLoad int `json:"accelerated_course_load"`
}

// ProgramView whole-program figures
type ProgramView struct {
	Source          string   `json:"source"`
	ProgressPercent float64  `json:"progress_percent"`
	AverageGrade    *float64 `json:"average_grade"`
	EndDate         string   `json:"end_date,omitempty"`
	RemainingDays   int      `json:"remaining_days"`
	OpenCount       int      `json:"open_count"`
	PassedCount     int      `json:"passed_count"`
	TotalCount      int      `json:"total_count"`
	SkippedRows     int      `json:"skipped_rows"`
	SemesterCount   int      `json:"semester_count"`
}

// DashboardResponse everything the dashboard page renders
type DashboardResponse struct {
	Semesters   []SemesterOption `json:"semesters"`
	Selected    int              `json:"selected"`
	Semester    *SemesterView    `json:"semester,omitempty"`
	Program     *ProgramView     `json:"program"`
	GeneratedAt string           `json:"generated_at"`
}

// DashboardQuery GET /api/v1/dashboard and GET /
type DashboardQuery struct {
	Semester int `form:"semester" binding:"omitempty,min=1"`
}

// CalendarQuery GET /api/v1/export/calendar.ics
type CalendarQuery struct {
	Open bool `form:"open"`
}
