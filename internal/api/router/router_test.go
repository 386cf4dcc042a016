package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/config"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/api/handler"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/service"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()

	records := []curriculum.Record{
		{Name: "Mathe I", Semester: "1", Grade: "1,7", EndDate: "31.01.2024", Passed: "ja"},
		{Name: "Datenbanken", Semester: "2", EndDate: "30.09.2024", Passed: "nein"},
	}
	program := curriculum.Build(records, curriculum.WithLocation(time.UTC))
	cfg := &config.Config{
		Dashboard: config.DashboardConfig{DefaultSemester: 1, AcceleratedCourseLoad: 8, CacheTTL: time.Minute},
	}
	clock := curriculum.FixedClock(time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC))
	h := handler.NewHandler(service.NewService(cfg, program, clock, zap.NewNop()))

	r, err := Setup(cfg, h, zap.NewNop())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	return r
}

func TestRouter_Routes(t *testing.T) {
	r := setupTestRouter(t)

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/", http.StatusOK},
		{"/?semester=2", http.StatusOK},
		{"/api/v1/semesters", http.StatusOK},
		{"/api/v1/semesters/2", http.StatusOK},
		{"/api/v1/semesters/x", http.StatusBadRequest},
		{"/api/v1/semesters/5", http.StatusNotFound},
		{"/api/v1/program", http.StatusOK},
		{"/api/v1/dashboard?semester=2", http.StatusOK},
		{"/api/v1/export/dashboard.xlsx", http.StatusOK},
		{"/api/v1/export/calendar.ics?open=true", http.StatusOK},
		{"/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
		if w.Code != tt.want {
			t.Errorf("GET %s: expected %d, got %d", tt.path, tt.want, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("GET %s: expected a request id header", tt.path)
		}
	}
}

func TestRouter_HealthBody(t *testing.T) {
	r := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health body %s", w.Body.String())
	}
}
