package handler

import "github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/service"

// Handler aggregates all handlers
type Handler struct {
	Dashboard *DashboardHandler
	Export    *ExportHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Dashboard: NewDashboardHandler(svc.Dashboard),
		Export:    NewExportHandler(svc.Export, svc.Calendar),
	}
}
