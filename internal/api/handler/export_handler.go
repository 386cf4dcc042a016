package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/dto"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/service"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler file downloads
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportDashboard Excel workbook of all semesters
// GET /api/v1/export/dashboard.xlsx
func (h *ExportHandler) ExportDashboard(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportDashboard(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCalendar course deadlines as iCalendar
// GET /api/v1/export/calendar.ics?open=true
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	var q dto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "open must be a boolean")
		return
	}

	data, filename, err := h.calendarSvc.ExportCalendar(c.Request.Context(), q.Open)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, icsContentType, data)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportEmpty):
		response.NotFound(c, response.CodeExportEmpty, "nothing to export")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
