package source

import (
	"context"
	"fmt"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/repository"
)

// DB reads the rows stored by the importer from PostgreSQL.
type DB struct {
	repo repository.CurriculumRowRepository
}

// NewDB creates a database source.
func NewDB(repo repository.CurriculumRowRepository) *DB {
	return &DB{repo: repo}
}

// Name implements curriculum.RecordSource.
func (s *DB) Name() string { return "postgres:curriculum_rows" }

// Records implements curriculum.RecordSource.
func (s *DB) Records(ctx context.Context) ([]curriculum.Record, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.List: %w", err)
	}

	records := make([]curriculum.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, curriculum.Record{
			Name:     row.Kurs,
			Semester: row.Semester,
			Grade:    row.Note,
			EndDate:  row.Enddatum,
			Passed:   row.Bestanden,
		})
	}
	return records, nil
}
