package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/config"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/api/handler"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/api/router"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/repository"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/service"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/source"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/pkg/database"
	applogger "github.com/frederiksarhane/Studienfortschritt-Dashboard/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default: ./config/config.yaml)")
	flag.Parse()

	// 1. environment and config
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("source", cfg.Data.Source),
		zap.String("log_level", cfg.Log.Level),
	)

	loc, err := cfg.Data.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	// 3. database, only for the postgres source
	var (
		db   *gorm.DB
		repo *repository.Repository
	)
	if cfg.Data.Source == config.SourcePostgres {
		db, err = database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("failed to get sql.DB", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		repo = repository.NewRepository(db)
	}

	// 4. load the curriculum once; a broken source stops the start
	var rowRepo repository.CurriculumRowRepository
	if repo != nil {
		rowRepo = repo.CurriculumRow
	}
	src, err := source.FromConfig(&cfg.Data, rowRepo)
	if err != nil {
		logger.Fatal("invalid data source", zap.Error(err))
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	program, err := curriculum.Load(loadCtx, src, curriculum.WithLocation(loc))
	cancelLoad()
	if err != nil {
		logger.Fatal("failed to load curriculum", zap.Error(err))
	}

	logger.Info("curriculum loaded",
		zap.String("source", program.Source()),
		zap.Int("courses", len(program.Courses())),
		zap.Int("semesters", len(program.Semesters())),
		zap.Int("skipped_rows", program.Skipped()),
	)

	// 5. wiring: Program → Service → Handler
	svc := service.NewService(cfg, program, curriculum.SystemClock, logger)
	h := handler.NewHandler(svc)

	engine, err := router.Setup(cfg, h, logger)
	if err != nil {
		logger.Fatal("failed to set up router", zap.Error(err))
	}

	// 6. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if db != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}

	logger.Info("server stopped")
}
