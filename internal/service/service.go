package service

import (
	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/config"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
)

// Service aggregates the services the HTTP layer needs.
// ImportService is built on its own by cmd/import since it needs a database.
type Service struct {
	Dashboard DashboardService
	Export    ExportService
	Calendar  CalendarService
}

// NewService creates the Service aggregate over one loaded program
func NewService(
	cfg *config.Config,
	program *curriculum.Program,
	clock curriculum.Clock,
	logger *zap.Logger,
) *Service {
	dashboard := NewDashboardService(program, clock, &cfg.Dashboard, logger)
	return &Service{
		Dashboard: dashboard,
		Export:    NewExportService(program, dashboard, clock, logger),
		Calendar:  NewCalendarService(program, clock, logger),
	}
}
