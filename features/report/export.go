package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/features/aimeta"
	"github.com/sagan/mapic/util/stringutil"
)

const (
	FORMAT_CSV  = "csv"
	FORMAT_XLSX = "xlsx"

	METADATA_SEPARATOR = " | "
	SHEET_NAME         = "Sheet1"
)

// Header of the export table.
var Header = []string{"File", "Metadata"}

// ExtractFunc returns the metadata of an image file, e.g. (*aimeta.Extractor).ExtractFile.
type ExtractFunc func(name string) (*aimeta.ImageMetadata, error)

// Row is one export table row.
type Row struct {
	File     string
	Metadata string
	Err      error
}

func (r Row) Values() []string {
	if r.Err != nil {
		return []string{r.File, constants.EXPORT_ERROR_PREFIX + r.Err.Error()}
	}
	return []string{r.File, r.Metadata}
}

// MetadataCell joins the labeled fields of m into a single line, html tags stripped.
func MetadataCell(m *aimeta.ImageMetadata) string {
	var parts []string
	for _, line := range Lines(m) {
		for _, subline := range strings.Split(line.String(), "\n") {
			subline = strings.TrimSpace(stringutil.StripTags(subline))
			if subline != "" {
				parts = append(parts, subline)
			}
		}
	}
	return strings.Join(parts, METADATA_SEPARATOR)
}

// ExportRow extracts one file. A failed (or panicked) extraction is reported in the row.
func ExportRow(name string, extract ExtractFunc) (row Row) {
	row.File = filepath.Base(name)
	defer func() {
		if r := recover(); r != nil {
			row.Metadata = ""
			row.Err = fmt.Errorf("%v", r)
		}
	}()
	m, err := extract(name)
	if err != nil {
		row.Err = err
		return row
	}
	row.Metadata = MetadataCell(m)
	return row
}

// ExportRows returns exactly one row per file, in order. failed is the number of error rows.
func ExportRows(files []string, extract ExtractFunc) (rows []Row, failed int) {
	rows = make([]Row, 0, len(files))
	for _, file := range files {
		row := ExportRow(file, extract)
		if row.Err != nil {
			log.Warnf("%s: %v", file, row.Err)
			failed++
		}
		rows = append(rows, row)
	}
	return rows, failed
}

// WriteCsv writes the header and rows as csv.
func WriteCsv(output io.Writer, rows []Row) error {
	writer := csv.NewWriter(output)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXlsx writes the header and rows as a single sheet Excel workbook.
func WriteXlsx(output io.Writer, rows []Row) (err error) {
	xlsxFile := excelize.NewFile()
	defer func() {
		if err := xlsxFile.Close(); err != nil {
			log.Printf("Error closing Excel file: %v\n", err)
		}
	}()
	header := Header
	if err = xlsxFile.SetSheetRow(SHEET_NAME, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		if err = xlsxFile.SetSheetRow(SHEET_NAME, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return xlsxFile.Write(output)
}

// Export writes the export table of files in format ("csv" or "xlsx").
func Export(output io.Writer, format string, files []string, extract ExtractFunc) (failed int, err error) {
	rows, failed := ExportRows(files, extract)
	switch format {
	case FORMAT_CSV, "":
		err = WriteCsv(output, rows)
	case FORMAT_XLSX:
		err = WriteXlsx(output, rows)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	return failed, err
}

// FormatOf returns the export format of output filename: "xlsx" for ".xlsx" files, "csv" otherwise.
func FormatOf(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return FORMAT_XLSX
	}
	return FORMAT_CSV
}
