package curriculum

import (
	"testing"
	"time"
)

func TestNewCourse_NormalizesFieldsIndependently(t *testing.T) {
	c := NewCourse(3, Record{
		Name:     "Statistik",
		Semester: "2",
		Grade:    "kaputt",
		EndDate:  "15.03.2024",
		Passed:   "ja",
	}, 2, time.UTC)

	if c.Name != "Statistik" || c.Semester != 2 || c.Position != 3 {
		t.Errorf("unexpected identity fields: %+v", c)
	}
	if c.Grade != nil {
		t.Errorf("unparsable grade should be nil, got %v", *c.Grade)
	}
	if c.EndDate == nil {
		t.Fatal("end date should survive a broken grade")
	}
	if !c.Passed {
		t.Error("passed flag should survive a broken grade")
	}
}

func TestCourse_StartDate(t *testing.T) {
	end := time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC)
	c := &Course{EndDate: &end}

	start := c.StartDate()
	if start == nil {
		t.Fatal("expected a start date")
	}
	want := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("expected %v, got %v", want, *start)
	}

	if (&Course{}).StartDate() != nil {
		t.Error("course without end date has no start date")
	}
}

func TestCourse_RemainingDays(t *testing.T) {
	end := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	c := &Course{EndDate: &end}

	now := time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)
	if got := c.RemainingDays(now); got != 4 {
		t.Errorf("expected 4 whole days, got %d", got)
	}

	past := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	if got := c.RemainingDays(past); got != 0 {
		t.Errorf("past end date must yield 0, got %d", got)
	}

	if got := (&Course{}).RemainingDays(now); got != 0 {
		t.Errorf("missing end date must yield 0, got %d", got)
	}
}

func TestCourse_RemainingDaysNonIncreasing(t *testing.T) {
	end := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	c := &Course{EndDate: &end}

	prev := c.RemainingDays(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	for h := 1; h < 24*90; h += 7 {
		now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(h) * time.Hour)
		got := c.RemainingDays(now)
		if got > prev {
			t.Fatalf("remaining days increased from %d to %d at %v", prev, got, now)
		}
		if got < 0 {
			t.Fatalf("remaining days negative at %v", now)
		}
		prev = got
	}
	if prev != 0 {
		t.Errorf("expected 0 after the end date, got %d", prev)
	}
}

func TestDaysUntil_DaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, loc)
	now := time.Date(2024, time.March, 30, 0, 0, 0, 0, loc)
	if got := DaysUntil(end.AddDate(0, 0, 1), now); got != 2 {
		t.Errorf("expected 2 calendar days across the DST switch, got %d", got)
	}
}

func TestRoundTo(t *testing.T) {
	cases := []struct {
		in     float64
		places int
		want   float64
	}{
		{200.0 / 3, 1, 66.7},
		{2.675, 2, 2.67},
		{0.125, 2, 0.12},
		{1.005, 2, 1},
		{1.7, 2, 1.7},
	}
	for _, tc := range cases {
		if got := RoundTo(tc.in, tc.places); got != tc.want {
			t.Errorf("RoundTo(%v, %d): expected %v, got %v", tc.in, tc.places, tc.want, got)
		}
	}
}

func TestDaysUntil_FarFuture(t *testing.T) {
	end := ParseDate("01.01.2400", time.UTC)
	if end == nil {
		t.Fatal("expected 01.01.2400 to parse")
	}
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	if got := DaysUntil(*end, now); got != 136309 {
		t.Errorf("expected 136309 days, got %d", got)
	}

	c := &Course{EndDate: end}
	if got := c.RemainingDays(now.Add(12 * time.Hour)); got != 136308 {
		t.Errorf("expected 136308 whole days from noon, got %d", got)
	}
}

func TestDaysUntil_SubSecond(t *testing.T) {
	end := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	now := end.Add(-24*time.Hour + 500*time.Millisecond)
	if got := DaysUntil(end, now); got != 0 {
		t.Errorf("expected 0 when less than a full day remains, got %d", got)
	}
}
