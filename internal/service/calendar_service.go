package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
)

const calendarProductID = "-//Studienfortschritt-Dashboard//Kursfristen//DE"

// CalendarService exports course end dates as an iCalendar feed.
type CalendarService interface {
	// ExportCalendar returns one all-day event per dated course.
	// With openOnly set, passed courses are left out.
	ExportCalendar(ctx context.Context, openOnly bool) ([]byte, string, error)
}

type calendarService struct {
	program *curriculum.Program
	clock   curriculum.Clock
	logger  *zap.Logger
}

// NewCalendarService creates a CalendarService
func NewCalendarService(program *curriculum.Program, clock curriculum.Clock, logger *zap.Logger) CalendarService {
	return &calendarService{program: program, clock: clock, logger: logger}
}

func (s *calendarService) ExportCalendar(ctx context.Context, openOnly bool) ([]byte, string, error) {
	if len(s.program.Courses()) == 0 {
		return nil, "", ErrExportEmpty
	}
	now := s.clock.Now()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	events := 0
	for _, c := range s.program.Courses() {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		if c.EndDate == nil || (openOnly && c.Passed) {
			continue
		}

		event := cal.AddEvent(courseUID(c))
		event.SetDtStampTime(now)
		event.SetSummary(c.Name)
		event.SetDescription(courseDescription(c))
		event.SetAllDayStartAt(*c.EndDate)
		event.SetAllDayEndAt(c.EndDate.AddDate(0, 0, 1))
		events++
	}

	s.logger.Debug("calendar exported", zap.Int("events", events), zap.Bool("open_only", openOnly))

	filename := fmt.Sprintf("studienfortschritt_%s.ics", now.Format("20060102"))
	return []byte(cal.Serialize()), filename, nil
}

// courseUID is stable across exports as long as the row keeps its position.
func courseUID(c *curriculum.Course) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("studienfortschritt:course:"+strconv.Itoa(c.Position)))
	return id.String() + "@studienfortschritt"
}

func courseDescription(c *curriculum.Course) string {
	parts := []string{fmt.Sprintf("Semester %d", c.Semester)}
	if c.Passed {
		parts = append(parts, "bestanden")
	} else {
		parts = append(parts, "offen")
	}
	if c.Grade != nil {
		parts = append(parts, "Note "+strings.Replace(strconv.FormatFloat(*c.Grade, 'f', -1, 64), ".", ",", 1))
	}
	return strings.Join(parts, ", ")
}
