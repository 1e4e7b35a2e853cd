// services/load_service_test.go
package services

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pimtools/pimload/config"
	"github.com/pimtools/pimload/database"
	"github.com/pimtools/pimload/loader"
	"github.com/pimtools/pimload/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })
	return db
}

const availabilityCSV = "Item no.,Status\n1000,Active\n1001,Blocked\n"

func writeCSV(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(availabilityCSV), 0o644))
	return path
}

func TestLoadPIMFolderAppliesLabelOnce(t *testing.T) {
	db := newTestDB(t)
	cfg := config.Default()
	dir := t.TempDir()
	writeCSV(t, dir, "item_availability_list_20240329145236_v10.csv")
	writeCSV(t, dir, "item_availability_list_20240411090811_v10.csv")

	total, err := LoadPIMFolder(db, cfg, dir, false, "march baseline")
	require.NoError(t, err)
	require.EqualValues(t, 4, total)

	// The label names the batch, not each file: exactly one snapshot gets it.
	var labelCount int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM labels_pim").Scan(&labelCount))
	require.Equal(t, 1, labelCount)

	firstKey := time.Date(2024, 3, 29, 14, 52, 36, 0, time.UTC)
	label, found, err := database.GetLabel(db, models.SourcePIM, firstKey)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "march baseline", label)
}

func TestLoadPIMFolderContinuesAfterBadFile(t *testing.T) {
	db := newTestDB(t)
	cfg := config.Default()
	dir := t.TempDir()
	writeCSV(t, dir, "inventory.csv") // no underscore in the stem
	writeCSV(t, dir, "item_availability_list_20240329145236_v10.csv")

	total, err := LoadPIMFolder(db, cfg, dir, false, "")
	require.ErrorIs(t, err, loader.ErrInvalidFileName)
	require.EqualValues(t, 2, total)
}

func TestLoadPIMFolderDropTablesOncePerCategory(t *testing.T) {
	db := newTestDB(t)
	cfg := config.Default()
	dir := t.TempDir()
	writeCSV(t, dir, "item_availability_list_20240329145236_v10.csv")
	writeCSV(t, dir, "item_availability_list_20240411090811_v10.csv")

	_, err := LoadPIMFolder(db, cfg, dir, false, "")
	require.NoError(t, err)

	// Full refresh drops the category table once, then both files load into it.
	total, err := LoadPIMFolder(db, cfg, dir, true, "")
	require.NoError(t, err)
	require.EqualValues(t, 4, total)

	var count int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM item_availability").Scan(&count))
	require.Equal(t, 4, count)
}

func TestLoadDocFolderSkipsUnconfiguredFiles(t *testing.T) {
	db := newTestDB(t)
	cfg := config.Default()
	cfg.Doc.FileSheets = map[string][]string{"doc documentation": {"doc cert data template"}}
	cfg.Doc.SheetFields = map[string][]config.FieldSpec{
		"doc cert data template": {
			{Name: "CERTIFICATION_NUMBER", Required: true},
			{Name: "CERTIFICATE_NAME", Required: false},
		},
	}
	cfg.Doc.StartRows = map[string]config.StartRows{
		"doc cert data template": {Header: 1, Data: 2},
	}
	cfg.Doc.UniqueKeys = map[string][]string{
		"doc_cert_data_template": {"request_date", "CERTIFICATION_NUMBER"},
	}

	dir := t.TempDir()
	writeDocWorkbook(t, dir, "DoC Documentation - request.xlsx")
	writeDocWorkbook(t, dir, "Mystery Export.xlsx")

	requestDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	total, err := LoadDocFolder(db, cfg, dir, requestDate, false, "request label")
	require.NoError(t, err) // the unmatched file is a diagnostic, not a failure
	require.EqualValues(t, 1, total)

	var labelCount int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM labels_doc").Scan(&labelCount))
	require.Equal(t, 1, labelCount)
}

func writeDocWorkbook(t *testing.T, dir, name string) string {
	t.Helper()
	workbook := excelize.NewFile()
	defer workbook.Close()

	require.NoError(t, workbook.SetSheetName(workbook.GetSheetName(0), "DoC Cert Data Template"))
	require.NoError(t, workbook.SetSheetRow("DoC Cert Data Template", "A1",
		&[]any{"CERTIFICATION_NUMBER", "CERTIFICATE_NAME"}))
	require.NoError(t, workbook.SetSheetRow("DoC Cert Data Template", "A2",
		&[]any{"CERT-1", "Name One"}))

	path := filepath.Join(dir, name)
	require.NoError(t, workbook.SaveAs(path))
	return path
}
