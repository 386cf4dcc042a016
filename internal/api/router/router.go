package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/config"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/api/handler"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/api/middleware"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/web"
)

// Setup builds the gin engine with all routes
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── page ──
	r.GET("/", h.Dashboard.Page)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		semesters := v1.Group("/semesters")
		{
			semesters.GET("", h.Dashboard.ListSemesters)
			semesters.GET("/:number", h.Dashboard.GetSemester)
		}

		v1.GET("/program", h.Dashboard.GetProgram)
		v1.GET("/dashboard", h.Dashboard.GetDashboard)

		export := v1.Group("/export")
		{
			export.GET("/dashboard.xlsx", h.Export.ExportDashboard)
			export.GET("/calendar.ics", h.Export.ExportCalendar)
		}
	}

	return r, nil
}
