package input

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbnjay/grate"
	_ "github.com/pbnjay/grate/simple"
	_ "github.com/pbnjay/grate/xls"
	_ "github.com/pbnjay/grate/xlsx"
)

var SourceSpreadsheet = "Spreadsheet"

// SpreadsheetSource reads requests from every sheet of an xls, xlsx, csv or
// tsv file.
type SpreadsheetSource struct {
	path string
}

func NewSpreadsheetSource(path string) *SpreadsheetSource {
	return &SpreadsheetSource{path: path}
}

// rows is the part of grate.Collection a sheet is read through.
type rows interface {
	Next() bool
	Strings() []string
	Err() error
}

func (s *SpreadsheetSource) Load(ctx context.Context) (*Batch, error) {
	batch := NewBatch(SourceSpreadsheet)
	parsed := 0

	read := func(name string, sheet rows) error {
		n := 0
		for sheet.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			cr, err := parseRow(n, sheet.Strings())
			n++
			if err == nil {
				batch.AddRequest(cr)
				parsed++
			}
		}

		if err := sheet.Err(); err != nil {
			return fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		return nil
	}

	// grate's tsv reader claims any text file, so commas are split here
	if strings.EqualFold(filepath.Ext(s.path), ".csv") {
		sheet, err := openCSV(s.path)
		if err != nil {
			return nil, err
		}
		if err := read(filepath.Base(s.path), sheet); err != nil {
			return nil, err
		}
	} else if err := s.readWorkbook(read); err != nil {
		return nil, err
	}

	if parsed == 0 {
		return nil, ErrDataUnavailable
	}

	return batch, nil
}

func (s *SpreadsheetSource) readWorkbook(read func(string, rows) error) error {
	wb, err := grate.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(s.path), err)
	}
	defer wb.Close()

	sheets, err := wb.List()
	if err != nil {
		return err
	}
	for _, sheetName := range sheets {
		sheet, err := wb.Get(sheetName)
		if err != nil {
			return err
		}
		if err := read(sheetName, sheet); err != nil {
			return err
		}
	}

	return nil
}

func (s *SpreadsheetSource) Source() string {
	return SourceSpreadsheet
}

type csvRows struct {
	r   *csv.Reader
	row []string
	err error
}

func openCSV(path string) (*csvRows, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}

	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	return &csvRows{r: r}, nil
}

func (c *csvRows) Next() bool {
	if c.err != nil {
		return false
	}

	c.row, c.err = c.r.Read()
	return c.err == nil
}

func (c *csvRows) Strings() []string {
	return c.row
}

func (c *csvRows) Err() error {
	if errors.Is(c.err, io.EOF) {
		return nil
	}
	return c.err
}
