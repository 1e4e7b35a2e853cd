// loader/hybris.go
package loader

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/pimtools/pimload/database"
	"github.com/pimtools/pimload/models"
)

// LoadHybrisFile loads the SKU status workbook into its category table.
//
// Only the first worksheet is read; its first row is the header. The status
// export carries no timestamp in its name, so the snapshot key is the file's
// timestamp rounded to the nearest second. A synthetic "SKU~Item" composite
// key is injected as a leading "Item no." column to support joins against
// the feed tables. Returns the count of newly inserted rows.
func LoadHybrisFile(
	db *sql.DB,
	filePath string,
	dropTableFirst bool,
	uniqueKeyColumns []string,
	label string,
) (int64, error) {
	category, err := CategoryFromFilename(filePath)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	exportDate := RoundToSecond(info.ModTime())

	workbook, err := excelize.OpenFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook %s: %w", filePath, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("workbook %s has no worksheets", filePath)
	}
	sheetRows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], filePath, err)
	}
	if len(sheetRows) == 0 {
		return 0, fmt.Errorf("sheet %q of %s is empty", sheets[0], filePath)
	}
	header := sheetRows[0]
	if len(header) < 2 {
		return 0, fmt.Errorf("sheet %q of %s needs at least two columns for the %q join key",
			sheets[0], filePath, "SKU~Item")
	}

	columns := append([]string{"export_date", "Item no."}, header...)
	schema := []database.Column{
		{Name: "id", Type: database.TypeIdentity},
		{Name: "export_date", Type: database.TypeDateTime, NotNull: true},
	}
	for _, field := range columns[1:] {
		schema = append(schema, database.Column{Name: field, Type: database.TypeText})
	}

	if dropTableFirst {
		if err := database.DropTables(db, []string{category}); err != nil {
			return 0, err
		}
	}
	if err := database.EnsureTable(db, category, schema, uniqueKeyColumns); err != nil {
		return 0, err
	}

	exportDateValue := database.EncodeDateTime(exportDate)
	var rows [][]any
	for _, raw := range sheetRows[1:] {
		record := padRow(raw, len(header))
		row := make([]any, 0, len(header)+2)
		row = append(row, exportDateValue, record[1]+"~"+record[0])
		for _, value := range record {
			row = append(row, value)
		}
		rows = append(rows, row)
	}

	inserted, err := database.InsertIgnore(db, category, columns, rows)
	if err != nil {
		return 0, err
	}
	log.Printf("Inserted %d rows from %s into %s (export date %s)",
		inserted, filepath.Base(filePath), category, exportDateValue)

	if label != "" && inserted > 0 {
		if err := database.SetLabel(db, models.SourceHybris, exportDate, label); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

// padRow truncates or right-pads a physical row to exactly n cells. The
// workbook reader drops trailing empty cells, and users sometimes add stray
// columns past the template's edge.
func padRow(row []string, n int) []string {
	if len(row) >= n {
		return row[:n]
	}
	padded := make([]string, n)
	copy(padded, row)
	return padded
}
