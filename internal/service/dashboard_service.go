package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/config"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/dto"
)

var ErrSemesterNotFound = errors.New("semester not found")

// DashboardService turns the loaded program into view models.
//
// The program snapshot is read-only; the only shared mutable state is the
// view cache. Cache keys carry the clock's calendar day so remaining-days
// figures never outlive the day they were computed for.
type DashboardService interface {
	Semesters(ctx context.Context) []dto.SemesterOption
	SemesterView(ctx context.Context, number int) (*dto.SemesterView, error)
	ProgramView(ctx context.Context) *dto.ProgramView
	// Dashboard selects number, or the configured default semester when number is 0.
	Dashboard(ctx context.Context, number int) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	program *curriculum.Program
	clock   curriculum.Clock
	cfg     *config.DashboardConfig
	logger  *zap.Logger

	semesterCache *ttlcache.Cache[string, *dto.SemesterView]
	programCache  *ttlcache.Cache[string, *dto.ProgramView]

	mu  sync.Mutex
	day string // day the cached views belong to
}

// NewDashboardService creates a DashboardService. A non-positive cache TTL disables caching.
func NewDashboardService(
	program *curriculum.Program,
	clock curriculum.Clock,
	cfg *config.DashboardConfig,
	logger *zap.Logger,
) DashboardService {
	s := &dashboardService{
		program: program,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
	if cfg.CacheTTL > 0 {
		s.semesterCache = ttlcache.New[string, *dto.SemesterView](
			ttlcache.WithTTL[string, *dto.SemesterView](cfg.CacheTTL),
			ttlcache.WithDisableTouchOnHit[string, *dto.SemesterView](),
		)
		s.programCache = ttlcache.New[string, *dto.ProgramView](
			ttlcache.WithTTL[string, *dto.ProgramView](cfg.CacheTTL),
			ttlcache.WithDisableTouchOnHit[string, *dto.ProgramView](),
		)
	}
	return s
}

func (s *dashboardService) Semesters(_ context.Context) []dto.SemesterOption {
	semesters := s.program.Semesters()
	options := make([]dto.SemesterOption, 0, len(semesters))
	for _, sem := range semesters {
		options = append(options, dto.SemesterOption{
			Number: sem.Number,
			Label:  fmt.Sprintf("Semester %d", sem.Number),
		})
	}
	return options
}

func (s *dashboardService) SemesterView(_ context.Context, number int) (*dto.SemesterView, error) {
	sem, ok := s.program.Semester(number)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSemesterNotFound, number)
	}

	now := s.clock.Now()
	day := dayKey(now)
	s.rollDay(day)
	key := fmt.Sprintf("%s/semester/%d", day, number)
	if v := cached(s.semesterCache, key); v != nil {
		return v, nil
	}

	v := s.buildSemesterView(sem, now)
	if s.semesterCache != nil {
		s.semesterCache.DeleteExpired()
		s.semesterCache.Set(key, v, ttlcache.DefaultTTL)
	}
	return v, nil
}

func (s *dashboardService) ProgramView(_ context.Context) *dto.ProgramView {
	now := s.clock.Now()
	day := dayKey(now)
	s.rollDay(day)
	key := day + "/program"
	if v := cached(s.programCache, key); v != nil {
		return v
	}

	p := s.program
	v := &dto.ProgramView{
		Source:          p.Source(),
		ProgressPercent: p.OverallProgressPercent(),
		AverageGrade:    p.OverallAverageGrade(),
		EndDate:         formatDate(p.EndDate()),
		RemainingDays:   p.RemainingDaysToEnd(now),
		OpenCount:       len(p.OpenCourses()),
		PassedCount:     p.PassedCount(),
		TotalCount:      len(p.Courses()),
		SkippedRows:     p.Skipped(),
		SemesterCount:   len(p.Semesters()),
	}
	if s.programCache != nil {
		s.programCache.DeleteExpired()
		s.programCache.Set(key, v, ttlcache.DefaultTTL)
	}
	return v
}

func (s *dashboardService) Dashboard(ctx context.Context, number int) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{
		Semesters:   s.Semesters(ctx),
		Program:     s.ProgramView(ctx),
		GeneratedAt: s.clock.Now().Format(time.RFC3339),
	}

	selected, err := s.selectSemester(number)
	if err != nil {
		return nil, err
	}
	if selected == 0 {
		return resp, nil
	}

	view, err := s.SemesterView(ctx, selected)
	if err != nil {
		return nil, err
	}
	resp.Selected = selected
	resp.Semester = view
	return resp, nil
}

// rollDay drops every cached view once the clock moves to another calendar day.
func (s *dashboardService) rollDay(day string) {
	if s.semesterCache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.day == day {
		return
	}
	if s.day != "" {
		s.semesterCache.DeleteAll()
		s.programCache.DeleteAll()
		s.logger.Debug("dashboard cache purged", zap.String("previous_day", s.day), zap.String("day", day))
	}
	s.day = day
}

// selectSemester returns 0 when the program has no semesters at all.
func (s *dashboardService) selectSemester(number int) (int, error) {
	if number != 0 {
		if _, ok := s.program.Semester(number); !ok {
			return 0, fmt.Errorf("%w: %d", ErrSemesterNotFound, number)
		}
		return number, nil
	}

	if _, ok := s.program.Semester(s.cfg.DefaultSemester); ok {
		return s.cfg.DefaultSemester, nil
	}
	semesters := s.program.Semesters()
	if len(semesters) == 0 {
		return 0, nil
	}
	s.logger.Debug("default semester absent, using first",
		zap.Int("default_semester", s.cfg.DefaultSemester),
		zap.Int("first", semesters[0].Number),
	)
	return semesters[0].Number, nil
}

func (s *dashboardService) buildSemesterView(sem *curriculum.Semester, now time.Time) *dto.SemesterView {
	open := sem.OpenCourses()
	passed := sem.PassedCourses()
	remaining := sem.RemainingDaysToEnd(now)

	v := &dto.SemesterView{
		Number:                sem.Number,
		ProgressPercent:       sem.ProgressPercent(),
		PassedCount:           len(passed),
		TotalCount:            len(sem.Courses),
		AverageGrade:          sem.AverageGrade(),
		EndDate:               formatDate(sem.EndDate()),
		RemainingDays:         remaining,
		OpenCourses:           make([]dto.OpenCourse, 0, len(open)),
		PassedCourses:         make([]string, 0, len(passed)),
		EvenPaceDays:          paceDays(remaining, len(open)),
		AcceleratedPaceDays:   paceDays(remaining, s.cfg.AcceleratedCourseLoad),
		AcceleratedCourseLoad: s.cfg.AcceleratedCourseLoad,
	}
	for _, c := range open {
		v.OpenCourses = append(v.OpenCourses, dto.OpenCourse{
			Name:          c.Name,
			Grade:         c.Grade,
			EndDate:       formatDate(c.EndDate),
			RemainingDays: c.RemainingDays(now),
		})
	}
	for _, c := range passed {
		v.PassedCourses = append(v.PassedCourses, c.Name)
	}
	return v
}

// ── helpers ──

// paceDays splits days over n courses, rounding half to even; 0 when n is 0.
func paceDays(days, n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(days) / float64(n)))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}

func dayKey(now time.Time) string {
	return now.Format(dto.DateLayout)
}

func cached[V any](c *ttlcache.Cache[string, V], key string) V {
	var zero V
	if c == nil {
		return zero
	}
	item := c.Get(key)
	if item == nil || item.IsExpired() {
		return zero
	}
	return item.Value()
}
