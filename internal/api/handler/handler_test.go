package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/config"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/dto"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/service"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/pkg/response"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock DashboardService ──

type mockDashboardService struct {
	options      []dto.SemesterOption
	semester     *dto.SemesterView
	semesterErr  error
	program      *dto.ProgramView
	dashboard    *dto.DashboardResponse
	dashboardErr error
	lastNumber   int
}

func (m *mockDashboardService) Semesters(_ context.Context) []dto.SemesterOption {
	return m.options
}
func (m *mockDashboardService) SemesterView(_ context.Context, number int) (*dto.SemesterView, error) {
	m.lastNumber = number
	return m.semester, m.semesterErr
}
func (m *mockDashboardService) ProgramView(_ context.Context) *dto.ProgramView {
	return m.program
}
func (m *mockDashboardService) Dashboard(_ context.Context, number int) (*dto.DashboardResponse, error) {
	m.lastNumber = number
	return m.dashboard, m.dashboardErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportDashboard(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock CalendarService ──

type mockCalendarService struct {
	data     []byte
	filename string
	err      error
	openOnly bool
}

func (m *mockCalendarService) ExportCalendar(_ context.Context, openOnly bool) ([]byte, string, error) {
	m.openOnly = openOnly
	return m.data, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func dashboardRouter(h *DashboardHandler) *gin.Engine {
	r := gin.New()
	r.GET("/", h.Page)
	r.GET("/semesters", h.ListSemesters)
	r.GET("/semesters/:number", h.GetSemester)
	r.GET("/program", h.GetProgram)
	r.GET("/dashboard", h.GetDashboard)
	return r
}

// ═══════════════════════════════════════════════════════════
// DashboardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDashboardHandler_ListSemesters(t *testing.T) {
	mock := &mockDashboardService{options: []dto.SemesterOption{{Number: 1, Label: "Semester 1"}}}
	r := dashboardRouter(NewDashboardHandler(mock))

	w := serve(r, "GET", "/semesters")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"label":"Semester 1"`) {
		t.Errorf("expected option in body, got %s", w.Body.String())
	}
}

func TestDashboardHandler_GetSemester_Success(t *testing.T) {
	mock := &mockDashboardService{semester: &dto.SemesterView{Number: 2, ProgressPercent: 33.3}}
	r := dashboardRouter(NewDashboardHandler(mock))

	w := serve(r, "GET", "/semesters/2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != response.CodeOK {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if mock.lastNumber != 2 {
		t.Errorf("expected semester 2 to be requested, got %d", mock.lastNumber)
	}
}

func TestDashboardHandler_GetSemester_BadNumber(t *testing.T) {
	r := dashboardRouter(NewDashboardHandler(&mockDashboardService{}))

	for _, target := range []string{"/semesters/abc", "/semesters/0", "/semesters/1.5"} {
		w := serve(r, "GET", target)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, w.Code)
		}
		if resp := parseResponse(w); resp.Code != response.CodeInvalidParam {
			t.Errorf("%s: expected code %d, got %d", target, response.CodeInvalidParam, resp.Code)
		}
	}
}

func TestDashboardHandler_GetSemester_NotFound(t *testing.T) {
	mock := &mockDashboardService{semesterErr: service.ErrSemesterNotFound}
	r := dashboardRouter(NewDashboardHandler(mock))

	w := serve(r, "GET", "/semesters/9")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != response.CodeSemesterNotFound {
		t.Errorf("expected code %d, got %d", response.CodeSemesterNotFound, resp.Code)
	}
}

func TestDashboardHandler_GetSemester_InternalError(t *testing.T) {
	mock := &mockDashboardService{semesterErr: errors.New("boom")}
	r := dashboardRouter(NewDashboardHandler(mock))

	if w := serve(r, "GET", "/semesters/1"); w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestDashboardHandler_GetProgram(t *testing.T) {
	mock := &mockDashboardService{program: &dto.ProgramView{ProgressPercent: 40, OpenCount: 3}}
	r := dashboardRouter(NewDashboardHandler(mock))

	w := serve(r, "GET", "/program")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"open_count":3`) {
		t.Errorf("expected program view in body, got %s", w.Body.String())
	}
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	mock := &mockDashboardService{dashboard: &dto.DashboardResponse{Selected: 3}}
	r := dashboardRouter(NewDashboardHandler(mock))

	w := serve(r, "GET", "/dashboard?semester=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastNumber != 3 {
		t.Errorf("expected semester 3, got %d", mock.lastNumber)
	}

	serve(r, "GET", "/dashboard")
	if mock.lastNumber != 0 {
		t.Errorf("expected default selection, got %d", mock.lastNumber)
	}

	if w := serve(r, "GET", "/dashboard?semester=x"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDashboardHandler_GetDashboard_NotFound(t *testing.T) {
	mock := &mockDashboardService{dashboardErr: service.ErrSemesterNotFound}
	r := dashboardRouter(NewDashboardHandler(mock))

	if w := serve(r, "GET", "/dashboard?semester=9"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDashboardHandler_Page(t *testing.T) {
	records := []curriculum.Record{
		{Name: "Mathe I", Semester: "1", Grade: "1,7", EndDate: "31.01.2024", Passed: "ja"},
		{Name: "Programmierung", Semester: "1", EndDate: "15.02.2024", Passed: "nein"},
		{Name: "Datenbanken", Semester: "2", EndDate: "30.09.2024", Passed: "nein"},
	}
	program := curriculum.Build(records, curriculum.WithLocation(time.UTC))
	cfg := &config.Config{Dashboard: config.DashboardConfig{DefaultSemester: 1, AcceleratedCourseLoad: 8}}
	clock := curriculum.FixedClock(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	h := NewHandler(service.NewService(cfg, program, clock, zap.NewNop()))

	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("Templates failed: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/", h.Dashboard.Page)

	w := serve(r, "GET", "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Semester 1", "Mathe I", "Programmierung (verbleibende Tage: 45)", "Durchschnittsnote: 1,7"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "Datenbanken") {
		t.Error("courses of other semesters should not be listed")
	}

	w = serve(r, "GET", "/?semester=2")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Datenbanken") {
		t.Errorf("expected semester 2 page, got %d", w.Code)
	}

	if w := serve(r, "GET", "/?semester=7"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown semester, got %d", w.Code)
	}
	if w := serve(r, "GET", "/?semester=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer semester, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func exportRouter(h *ExportHandler) *gin.Engine {
	r := gin.New()
	r.GET("/export/dashboard.xlsx", h.ExportDashboard)
	r.GET("/export/calendar.ics", h.ExportCalendar)
	return r
}

func TestExportHandler_ExportDashboard(t *testing.T) {
	exp := &mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "studienfortschritt_20240901.xlsx"}
	r := exportRouter(NewExportHandler(exp, &mockCalendarService{}))

	w := serve(r, "GET", "/export/dashboard.xlsx")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "studienfortschritt_20240901.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
}

func TestExportHandler_ExportDashboard_Empty(t *testing.T) {
	exp := &mockExportService{err: service.ErrExportEmpty}
	r := exportRouter(NewExportHandler(exp, &mockCalendarService{}))

	w := serve(r, "GET", "/export/dashboard.xlsx")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != response.CodeExportEmpty {
		t.Errorf("expected code %d, got %d", response.CodeExportEmpty, resp.Code)
	}
}

func TestExportHandler_ExportCalendar(t *testing.T) {
	cal := &mockCalendarService{data: []byte("BEGIN:VCALENDAR"), filename: "studienfortschritt_20240901.ics"}
	r := exportRouter(NewExportHandler(&mockExportService{}, cal))

	w := serve(r, "GET", "/export/calendar.ics?open=true")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !cal.openOnly {
		t.Error("expected open=true to be passed through")
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("unexpected content type %q", w.Header().Get("Content-Type"))
	}

	if w := serve(r, "GET", "/export/calendar.ics?open=maybe"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
