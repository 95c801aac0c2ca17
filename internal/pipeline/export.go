package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"catalogo/internal"
)

var exportHeaders = []string{"id_item", "desc_curta", "desc_longa", "unid_pec", "origem"}

func ExportRecordsToXLSX(records []internal.Record, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range records {
		r := i + 2
		set := func(col int, value string) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellStr(sheet, cell, value)
		}

		set(1, rec.ID)
		set(2, rec.ShortDescription)
		set(3, rec.LongDescription)
		set(4, rec.Unit)
		set(5, strings.ToUpper(string(rec.Origin)))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
