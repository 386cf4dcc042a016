package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/model"
)

// insertBatchSize rows per INSERT statement
const insertBatchSize = 200

// CurriculumRowRepository data access for raw curriculum rows
type CurriculumRowRepository interface {
	List(ctx context.Context) ([]model.CurriculumRow, error)
	Count(ctx context.Context) (int64, error)
	ReplaceAll(ctx context.Context, rows []model.CurriculumRow) error
}

type curriculumRowRepo struct {
	db *gorm.DB
}

// NewCurriculumRowRepo creates a CurriculumRowRepository
func NewCurriculumRowRepo(db *gorm.DB) CurriculumRowRepository {
	return &curriculumRowRepo{db: db}
}

// List returns all rows in source order.
func (r *curriculumRowRepo) List(ctx context.Context) ([]model.CurriculumRow, error) {
	var rows []model.CurriculumRow
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}

func (r *curriculumRowRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CurriculumRow{}).
		Count(&n).Error
	return n, err
}

// ReplaceAll swaps the whole table content in one transaction.
func (r *curriculumRowRepo) ReplaceAll(ctx context.Context, rows []model.CurriculumRow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.CurriculumRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}
