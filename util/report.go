package util

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReportSheet is the worksheet name used by ExportLedger.
const ReportSheet = "Records"

// ReportHeader is the first row written by ExportLedger.
var ReportHeader = []string{"Path", "MD5", "Compressed Size", "Compression Ratio (%)", "Timestamp", "Run ID"}

// ExportLedger writes every ledger entry as one spreadsheet row, sorted by
// path, preceded by ReportHeader.
func ExportLedger(l *Ledger, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return err
	}

	header := make([]any, len(ReportHeader))
	for i, h := range ReportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	var rowErr error
	l.Iterate(func(path string, r Record) bool {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			rowErr = err
			return false
		}
		values := []any{
			path,
			r.MD5,
			r.CompressedSize,
			r.CompressionRatio,
			r.Timestamp.UTC().Format(time.RFC3339),
			r.RunID,
		}
		if err := f.SetSheetRow(ReportSheet, cell, &values); err != nil {
			rowErr = err
			return false
		}
		row++
		return true
	})
	if rowErr != nil {
		return rowErr
	}

	return f.Write(w)
}
