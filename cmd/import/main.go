// Command import copies a curriculum file into PostgreSQL so the server can
// run with data.source=postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/config"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/repository"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/service"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/source"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/pkg/database"
	applogger "github.com/frederiksarhane/Studienfortschritt-Dashboard/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default: ./config/config.yaml)")
	sourcePath := flag.String("source", "", "CSV or XLSX file to import (default: data.path)")
	sheet := flag.String("sheet", "", "worksheet for XLSX files (default: data.sheet)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	path := *sourcePath
	if path == "" {
		path = cfg.Data.Path
	}
	if path == "" {
		logger.Fatal("no source file: pass -source or set data.path")
	}
	if *sheet != "" {
		cfg.Data.Sheet = *sheet
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	importer := service.NewImportService(repository.NewRepository(db), logger)
	n, err := importer.Import(ctx, source.FromPath(path, &cfg.Data))
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("imported %d rows from %s\n", n, path)
}
