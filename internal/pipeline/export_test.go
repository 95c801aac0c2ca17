package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportRecordsToXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "result.xlsx")
	filtered := Filter(scenario, "parafuso", "todas")

	if err := ExportRecordsToXLSX(filtered, out); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0][0] != "id_item" || rows[0][4] != "origem" {
		t.Fatalf("header=%v", rows[0])
	}
	if rows[1][0] != "A1" || rows[1][2] != "Parafuso Phillips" || rows[1][3] != "CX" || rows[1][4] != "CD1" {
		t.Fatalf("row=%v", rows[1])
	}
}

func TestExportKeepsNumericLookingIDsAsText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ids.xlsx")
	records := sampleRecords(1)
	records[0].ID = "000123"
	if err := ExportRecordsToXLSX(records, out); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	v, err := f.GetCellValue(f.GetSheetName(0), "A2")
	if err != nil {
		t.Fatal(err)
	}
	if v != "000123" {
		t.Fatalf("A2=%q", v)
	}
}
