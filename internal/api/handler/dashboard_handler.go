package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/dto"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/service"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/pkg/response"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/web"
)

// DashboardHandler serves the dashboard page and its JSON API
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Page renders the HTML dashboard
// GET /?semester=N
func (h *DashboardHandler) Page(c *gin.Context) {
	var q dto.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, "Ungültige Semesterangabe")
		return
	}

	data, err := h.dashboardSvc.Dashboard(c.Request.Context(), q.Semester)
	if err != nil {
		if errors.Is(err, service.ErrSemesterNotFound) {
			c.String(http.StatusNotFound, "Semester %d nicht gefunden", q.Semester)
			return
		}
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Interner Fehler")
		return
	}

	c.HTML(http.StatusOK, web.DashboardPage, data)
}

// ListSemesters semester options
// GET /api/v1/semesters
func (h *DashboardHandler) ListSemesters(c *gin.Context) {
	response.OK(c, gin.H{"list": h.dashboardSvc.Semesters(c.Request.Context())})
}

// GetSemester one semester view
// GET /api/v1/semesters/:number
func (h *DashboardHandler) GetSemester(c *gin.Context) {
	number, ok := MustGetSemesterNumber(c)
	if !ok {
		return
	}

	view, err := h.dashboardSvc.SemesterView(c.Request.Context(), number)
	if err != nil {
		h.handleDashboardError(c, err)
		return
	}

	response.OK(c, view)
}

// GetProgram whole-program view
// GET /api/v1/program
func (h *DashboardHandler) GetProgram(c *gin.Context) {
	response.OK(c, h.dashboardSvc.ProgramView(c.Request.Context()))
}

// GetDashboard options plus both views
// GET /api/v1/dashboard?semester=N
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var q dto.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "semester must be a positive integer")
		return
	}

	data, err := h.dashboardSvc.Dashboard(c.Request.Context(), q.Semester)
	if err != nil {
		h.handleDashboardError(c, err)
		return
	}

	response.OK(c, data)
}

func (h *DashboardHandler) handleDashboardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, response.CodeSemesterNotFound, "semester not found")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
