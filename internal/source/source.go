// Package source reads raw curriculum rows from files or the database.
// Sources never interpret cell values; that is left to package curriculum.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/config"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/repository"
)

var (
	ErrUnknownSource   = errors.New("unknown curriculum source")
	ErrMissingColumn   = errors.New("required column missing")
	ErrEmptyTable      = errors.New("table has no header row")
	ErrUnknownEncoding = errors.New("unsupported text encoding")
)

// FromConfig builds the source selected by data.source.
// repo is only needed for the postgres source.
func FromConfig(cfg *config.DataConfig, repo repository.CurriculumRowRepository) (curriculum.RecordSource, error) {
	switch cfg.Source {
	case config.SourceCSV:
		return NewCSV(cfg.Path, cfg.Comma(), cfg.Encoding), nil
	case config.SourceXLSX:
		return NewXLSX(cfg.Path, cfg.Sheet), nil
	case config.SourcePostgres:
		if repo == nil {
			return nil, fmt.Errorf("%w: postgres source without repository", ErrUnknownSource)
		}
		return NewDB(repo), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
}

// FromPath picks the file source matching the file extension.
func FromPath(path string, cfg *config.DataConfig) curriculum.RecordSource {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewXLSX(path, cfg.Sheet)
	}
	return NewCSV(path, cfg.Comma(), cfg.Encoding)
}

// ── header handling shared by the tabular sources ──

// columnIndex maps the required column names to their positions.
type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(curriculum.Columns))
	for i, name := range header {
		name = strings.TrimSpace(trimBOM(name))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range curriculum.Columns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// cell returns the value of column col in row, or nil for short rows.
func (idx columnIndex) cell(row []string, col string) any {
	i := idx[col]
	if i >= len(row) {
		return nil
	}
	return row[i]
}

func (idx columnIndex) record(row []string) curriculum.Record {
	return curriculum.Record{
		Name:     idx.cell(row, curriculum.ColumnName),
		Semester: idx.cell(row, curriculum.ColumnSemester),
		Grade:    idx.cell(row, curriculum.ColumnGrade),
		EndDate:  idx.cell(row, curriculum.ColumnEndDate),
		Passed:   idx.cell(row, curriculum.ColumnPassed),
	}
}

// trimBOM drops a byte order mark, also when it was decoded as Latin-1.
func trimBOM(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimPrefix(s, "\u00ef\u00bb\u00bf")
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
