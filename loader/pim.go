// loader/pim.go
package loader

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pimtools/pimload/config"
	"github.com/pimtools/pimload/database"
	"github.com/pimtools/pimload/models"
)

// LoadPIMFile loads one delimited-text feed export into its category table.
//
// The first line is the header and becomes the column set the first time the
// category is seen; the export date parsed from the file name tags every row.
// Rows whose unique-key combination already exists are ignored, so re-loading
// the same export is a no-op. Returns the count of newly inserted rows.
func LoadPIMFile(
	db *sql.DB,
	cfg *config.Config,
	filePath string,
	dropTableFirst bool,
	uniqueKeyColumns []string,
	label string,
) (int64, error) {
	category, err := CategoryFromFilename(filePath)
	if err != nil {
		return 0, err
	}
	exportDate, err := SnapshotKeyFromFilename(filePath)
	if err != nil {
		return 0, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	// Dynamic schema from the file header rules out csvutil's struct-tag
	// decoding here; see the list command for where csvutil is used.
	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read header of %s: %w", filePath, err)
	}

	// Some exports ship template-specific header labels; rename them to the
	// canonical field names before the schema is derived.
	if remap, ok := cfg.PIM.HeaderMaps[category]; ok {
		for i, field := range header {
			if canonical, ok := remap[field]; ok {
				header[i] = canonical
			}
		}
	}

	columns := append([]string{"export_date"}, header...)
	schema := []database.Column{
		{Name: "id", Type: database.TypeIdentity},
		{Name: "export_date", Type: database.TypeDateTime, NotNull: true},
	}
	for _, field := range header {
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
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		row := make([]any, 0, len(record)+1)
		row = append(row, exportDateValue)
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
		if err := database.SetLabel(db, models.SourcePIM, exportDate, label); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}
