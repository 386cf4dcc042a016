package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/model"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/repository"
)

// ImportService copies a curriculum file into the curriculum_rows table.
//
// Cells are stored as raw text; nothing is validated here, so a row the
// dashboard would skip is still imported and skipped again on load.
type ImportService interface {
	Import(ctx context.Context, src curriculum.RecordSource) (int, error)
}

type importService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewImportService creates an ImportService
func NewImportService(repo *repository.Repository, logger *zap.Logger) ImportService {
	return &importService{repo: repo, logger: logger}
}

func (s *importService) Import(ctx context.Context, src curriculum.RecordSource) (int, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", src.Name(), err)
	}

	rows := make([]model.CurriculumRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, model.CurriculumRow{
			RowID:     uuid.NewString(),
			Position:  i,
			Kurs:      curriculum.CellText(rec.Name),
			Semester:  curriculum.CellText(rec.Semester),
			Note:      curriculum.CellText(rec.Grade),
			Enddatum:  curriculum.CellText(rec.EndDate),
			Bestanden: curriculum.CellText(rec.Passed),
		})
	}

	if err := s.repo.CurriculumRow.ReplaceAll(ctx, rows); err != nil {
		s.logger.Error("failed to replace curriculum rows", zap.Error(err))
		return 0, fmt.Errorf("replace curriculum rows: %w", err)
	}

	s.logger.Info("curriculum imported",
		zap.String("source", src.Name()),
		zap.Int("rows", len(rows)),
	)
	return len(rows), nil
}
