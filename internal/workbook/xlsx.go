package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// XLSXLoader reads Excel workbooks; every non-empty sheet becomes one table.
type XLSXLoader struct{}

// Format returns the loader name.
func (l *XLSXLoader) Format() string { return "xlsx" }

// Load opens a workbook and extracts each sheet.
func (l *XLSXLoader) Load(path string) ([]model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var tables []model.Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		if t, ok := tableFromRows(sheet, rows); ok {
			tables = append(tables, t)
		}
	}
	return tables, nil
}
