package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/internal/curriculum"
)

// CSV reads a delimited text file whose first row names the columns.
type CSV struct {
	path     string
	comma    rune
	encoding string
}

// NewCSV creates a CSV source. encoding is latin1 (default) or utf-8.
func NewCSV(path string, comma rune, encoding string) *CSV {
	if comma == 0 {
		comma = ';'
	}
	return &CSV{path: path, comma: comma, encoding: encoding}
}

// Name implements curriculum.RecordSource.
func (s *CSV) Name() string { return "csv:" + s.path }

// Records implements curriculum.RecordSource.
func (s *CSV) Records(ctx context.Context) ([]curriculum.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return s.read(ctx, f)
}

func (s *CSV) read(ctx context.Context, r io.Reader) ([]curriculum.Record, error) {
	decoded, err := decode(r, s.encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	reader.Comma = s.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []curriculum.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if blank(row) {
			continue
		}
		records = append(records, idx.record(row))
	}

	return records, nil
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "utf-8", "utf8":
		return r, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
}
