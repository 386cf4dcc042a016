package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
)

// XLSX reads one worksheet of an Excel workbook whose first row names the columns.
type XLSX struct {
	path  string
	sheet string
}

// NewXLSX creates an XLSX source; an empty sheet selects the first worksheet.
func NewXLSX(path, sheet string) *XLSX {
	return &XLSX{path: path, sheet: sheet}
}

// Name implements curriculum.RecordSource.
func (s *XLSX) Name() string { return "xlsx:" + s.path }

// Records implements curriculum.RecordSource.
// Cells are read raw so date cells arrive as serial numbers; those in the
// end date column are converted to time.Time.
func (s *XLSX) Records(ctx context.Context) ([]curriculum.Record, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenFile: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyTable
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("f.GetRows(%s): %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	idx, err := indexColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]curriculum.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blank(row) {
			continue
		}

		rec := idx.record(row)
		rec.EndDate = excelDate(rec.EndDate)
		records = append(records, rec)
	}

	return records, nil
}

// excelDate turns a serial date number into a time.Time and leaves text alone.
func excelDate(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t
}
