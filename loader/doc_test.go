// loader/doc_test.go
package loader

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pimtools/pimload/config"
	"github.com/pimtools/pimload/database"
	"github.com/pimtools/pimload/models"
)

func docTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Doc.FileSheets = map[string][]string{
		"doc documentation": {"doc cert data template"},
	}
	cfg.Doc.SheetFields = map[string][]config.FieldSpec{
		"doc cert data template": {
			{Name: "CERTIFICATION_NUMBER", Required: true},
			{Name: "CERTIFICATE_NAME", Required: false},
			{Name: "EXPIRY_DATE", Required: false},
		},
	}
	cfg.Doc.StartRows = map[string]config.StartRows{
		"doc cert data template": {Header: 1, Data: 2},
	}
	cfg.Doc.UniqueKeys = map[string][]string{
		"doc_cert_data_template": {"request_date", "CERTIFICATION_NUMBER"},
	}
	return cfg
}

func writeDocWorkbook(t *testing.T, dir, name string) string {
	t.Helper()
	workbook := excelize.NewFile()
	defer workbook.Close()

	require.NoError(t, workbook.SetSheetName(workbook.GetSheetName(0), "DoC Cert Data Template"))
	sheet := "DoC Cert Data Template"
	require.NoError(t, workbook.SetSheetRow(sheet, "A1",
		&[]any{"CERTIFICATION_NUMBER", "CERTIFICATE_NAME", "EXPIRY_DATE", "stray user column"}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A2",
		&[]any{"  CERT-1  ", "Name One", "2024-05-01 00:00:00", "junk"}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A3",
		&[]any{"CERT-2", "Name Two", ""}))
	// The table is followed by blank rows and then a notes region; rows past
	// three consecutive empties must not be collected.
	require.NoError(t, workbook.SetSheetRow(sheet, "A4", &[]any{" "}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A5", &[]any{" "}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A6", &[]any{" "}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A7", &[]any{"NOTE: not data"}))

	path := filepath.Join(dir, name)
	require.NoError(t, workbook.SaveAs(path))
	return path
}

func TestDocLoaderLoadFile(t *testing.T) {
	db := newTestDB(t)
	cfg := docTestConfig()
	requestDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	path := writeDocWorkbook(t, t.TempDir(), "DoC Documentation - Hungarian DOC 13728358.xlsx")

	docLoader := NewDocLoader(db, cfg, requestDate, false)
	inserted, err := docLoader.LoadFile(path, "hungarian doc")
	require.NoError(t, err)
	require.EqualValues(t, 2, inserted)

	// Stray columns past the template edge are dropped; provenance is kept.
	columns, err := database.TableColumns(db, "doc_cert_data_template")
	require.NoError(t, err)
	require.Equal(t, []string{
		"id", "request_date", "CERTIFICATION_NUMBER", "CERTIFICATE_NAME", "EXPIRY_DATE", "file_name",
	}, columns)

	var count int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM doc_cert_data_template").Scan(&count))
	require.Equal(t, 2, count)

	// Values are trimmed, date-typed fields reduced to plain dates, and
	// every row tagged with the request date and the source file.
	var certNumber, expiry, requestValue, fileName string
	require.NoError(t, db.QueryRow(`
		SELECT CERTIFICATION_NUMBER, EXPIRY_DATE, request_date, file_name
		FROM doc_cert_data_template ORDER BY id LIMIT 1`,
	).Scan(&certNumber, &expiry, &requestValue, &fileName))
	require.Equal(t, "CERT-1", certNumber)
	require.Equal(t, "2024-05-01", expiry)
	require.Equal(t, "2024-03-20T00:00:00", requestValue)
	require.Equal(t, "DoC Documentation - Hungarian DOC 13728358.xlsx", fileName)

	// The notes row after three consecutive empty rows was not collected.
	require.NoError(t, db.QueryRow(
		"SELECT count(*) FROM doc_cert_data_template WHERE CERTIFICATION_NUMBER LIKE 'NOTE%'").Scan(&count))
	require.Equal(t, 0, count)

	label, found, err := database.GetLabel(db, models.SourceDoc, requestDate)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "hungarian doc", label)
}

func TestDocLoaderReloadIsNoOp(t *testing.T) {
	db := newTestDB(t)
	cfg := docTestConfig()
	requestDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	path := writeDocWorkbook(t, t.TempDir(), "DoC Documentation - request.xlsx")

	docLoader := NewDocLoader(db, cfg, requestDate, false)
	_, err := docLoader.LoadFile(path, "")
	require.NoError(t, err)

	inserted, err := docLoader.LoadFile(path, "")
	require.NoError(t, err)
	require.EqualValues(t, 0, inserted)
}

func TestDocLoaderUnknownPrefix(t *testing.T) {
	db := newTestDB(t)
	cfg := docTestConfig()
	path := writeDocWorkbook(t, t.TempDir(), "Mystery Export.xlsx")

	docLoader := NewDocLoader(db, cfg, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), false)
	_, err := docLoader.LoadFile(path, "")
	require.ErrorIs(t, err, ErrMissingConfig)
}

func TestDocLoaderDropsTablesOncePerBatch(t *testing.T) {
	db := newTestDB(t)
	cfg := docTestConfig()
	requestDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	first := writeDocWorkbook(t, dir, "DoC Documentation - first.xlsx")
	second := writeDocWorkbook(t, dir, "DoC Documentation - second.xlsx")

	// Seed an older request so the refresh has something to clear.
	seed := NewDocLoader(db, cfg, requestDate.AddDate(0, -1, 0), false)
	_, err := seed.LoadFile(first, "")
	require.NoError(t, err)

	refresh := NewDocLoader(db, cfg, requestDate, true)
	_, err = refresh.LoadFile(first, "")
	require.NoError(t, err)
	_, err = refresh.LoadFile(second, "")
	require.NoError(t, err)

	// The table was dropped exactly once: the old request is gone, but the
	// first refresh file's rows survived the second file's load. Both files
	// carry the same rows, so the second contributed no new ones.
	snapshots, err := database.ListDocSnapshots(db,
		map[string]string{"doc_cert_data_template": "CERTIFICATION_NUMBER"}, false)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	require.Equal(t, "2024-03-20T00:00:00", snapshots[0].SnapshotKey)
	require.Equal(t, 2, snapshots[0].RowCount)
}
