package repository

import "gorm.io/gorm"

// Repository aggregates all repositories
type Repository struct {
	CurriculumRow CurriculumRowRepository
}

// NewRepository creates the Repository aggregate
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		CurriculumRow: NewCurriculumRowRepo(db),
	}
}
