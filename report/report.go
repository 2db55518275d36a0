// Package report lays the message records out as the exemption log table and
// writes it as a spreadsheet.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/dhcgn/exemption-log/model"
)

// FileName is the spreadsheet written into the output directory.
const FileName = "Exemption Log.xlsx"

const sheetName = "Sheet1"

const (
	ColumnID             = "Message No."
	ColumnDate           = "Date and Time"
	ColumnPageCount      = "Page Count"
	ColumnSender         = "Sender"
	ColumnRecipients     = "Recipient(s)"
	ColumnSubject        = "Subject"
	ColumnExemption      = "Exemption"
	ColumnLegalAuthority = "Legal Authority"
)

// Table is the assembled log: a header row plus one row per message. Cells
// are strings, except Page Count which is an int when known.
type Table struct {
	Header []string
	Rows   [][]any
}

// Columns returns the fixed column order. Page Count is present only when
// the PDF pass ran.
func Columns(withPages bool) []string {
	cols := []string{ColumnID, ColumnDate}
	if withPages {
		cols = append(cols, ColumnPageCount)
	}
	return append(cols, ColumnSender, ColumnRecipients, ColumnSubject, ColumnExemption, ColumnLegalAuthority)
}

// Build assembles records in order. Fields that were never populated render
// as empty cells; Exemption and Legal Authority are always empty.
func Build(records []model.Record, withPages bool) Table {
	t := Table{Header: Columns(withPages), Rows: make([][]any, 0, len(records))}
	for _, rec := range records {
		row := []any{rec.ID, rec.Date}
		if withPages {
			var pages any = ""
			if rec.HasPageCount {
				pages = rec.PageCount
			}
			row = append(row, pages)
		}
		row = append(row, rec.Sender, rec.Recipients, rec.Subject, "", "")
		t.Rows = append(t.Rows, row)
	}
	return t
}

// WriteXLSX writes the table to dir/FileName as a single sheet, replacing
// any file already there. It returns the path written.
func WriteXLSX(t Table, dir string) (string, error) {
	path := filepath.Join(dir, FileName)

	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("write header row: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}
