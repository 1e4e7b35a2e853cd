// loader/doc.go
package loader

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pimtools/pimload/config"
	"github.com/pimtools/pimload/database"
	"github.com/pimtools/pimload/models"
)

// emptyRowLimit ends a sheet scan: the tables in request workbooks are
// followed by notes and blank regions, so this many consecutive empty rows
// mean the data is over.
const emptyRowLimit = 3

// DocLoader loads templated DoC request workbooks. One logical request may
// span several files, and several files may feed the same sheet table, so
// the loader carries state across files: which tables were already dropped
// for a full refresh, and the request date that keys every row.
type DocLoader struct {
	db          *sql.DB
	cfg         *config.Config
	requestDate time.Time
	dropFirst   bool
	dropped     map[string]bool
}

// NewDocLoader returns a loader for one request batch. All rows loaded
// through it carry requestDate as their snapshot key.
func NewDocLoader(db *sql.DB, cfg *config.Config, requestDate time.Time, dropTablesFirst bool) *DocLoader {
	return &DocLoader{
		db:          db,
		cfg:         cfg,
		requestDate: requestDate,
		dropFirst:   dropTablesFirst,
		dropped:     make(map[string]bool),
	}
}

// LoadFile loads every configured sheet of one workbook. The file must match
// one of the configured file-name prefixes (case-insensitive) or
// ErrMissingConfig is returned. Returns the count of newly inserted rows
// across all sheets; the label, when given, is attached to the request date
// once at least one row was newly inserted.
func (l *DocLoader) LoadFile(filePath string, label string) (int64, error) {
	fileName := filepath.Base(filePath)
	sheets, err := l.sheetsForFile(fileName)
	if err != nil {
		return 0, err
	}

	workbook, err := excelize.OpenFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook %s: %w", filePath, err)
	}
	defer workbook.Close()

	var total int64
	for _, title := range workbook.GetSheetList() {
		if !sheets[strings.ToLower(title)] {
			continue
		}
		inserted, err := l.loadSheet(workbook, title, fileName)
		if err != nil {
			return total, err
		}
		total += inserted
	}

	if label != "" && total > 0 {
		if err := database.SetLabel(l.db, models.SourceDoc, l.requestDate, label); err != nil {
			return total, err
		}
	}
	return total, nil
}

// sheetsForFile resolves the set of sheet titles (lower-cased) to import for
// a file name via the configured prefix list.
func (l *DocLoader) sheetsForFile(fileName string) (map[string]bool, error) {
	lower := strings.ToLower(fileName)
	for prefix, titles := range l.cfg.Doc.FileSheets {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			sheets := make(map[string]bool, len(titles))
			for _, t := range titles {
				sheets[strings.ToLower(t)] = true
			}
			return sheets, nil
		}
	}
	return nil, fmt.Errorf("%w: no file prefix matches %q", ErrMissingConfig, fileName)
}

// loadSheet reads one sheet per its template layout and inserts its rows.
func (l *DocLoader) loadSheet(workbook *excelize.File, title string, fileName string) (int64, error) {
	sheetKey := strings.ToLower(title)
	fields, ok := l.cfg.Doc.SheetFields[sheetKey]
	if !ok {
		return 0, fmt.Errorf("%w: no field layout for sheet %q", ErrMissingConfig, title)
	}
	startRows, ok := l.cfg.Doc.StartRows[sheetKey]
	if !ok {
		return 0, fmt.Errorf("%w: no start rows for sheet %q", ErrMissingConfig, title)
	}
	table := Normalize(title)

	iter, err := workbook.Rows(title)
	if err != nil {
		return 0, fmt.Errorf("failed to iterate sheet %q: %w", title, err)
	}
	defer iter.Close()

	requestDateValue := database.EncodeDateTime(l.requestDate)
	var (
		columns   []string
		data      [][]any
		emptyRows int
		rowNumber int
	)
	for iter.Next() {
		rowNumber++
		raw, err := iter.Columns()
		if err != nil {
			return 0, fmt.Errorf("failed to read row %d of sheet %q: %w", rowNumber, title, err)
		}
		// Drop stray columns users add past the template's edge.
		trimmed := padRow(raw, len(fields))

		if rowNumber == startRows.Header {
			columns = make([]string, 0, len(fields)+2)
			columns = append(columns, "request_date")
			columns = append(columns, trimmed...)
			columns = append(columns, "file_name")
			if err := l.ensureSheetTable(table, columns); err != nil {
				return 0, err
			}
		}

		if rowNumber >= startRows.Data {
			values, empty := convertRow(trimmed, fields)
			if empty {
				emptyRows++
				if emptyRows >= emptyRowLimit {
					break
				}
				continue
			}
			emptyRows = 0
			row := make([]any, 0, len(values)+2)
			row = append(row, requestDateValue)
			for _, v := range values {
				row = append(row, v)
			}
			row = append(row, fileName)
			data = append(data, row)
		}
	}

	if columns == nil {
		log.Printf("Sheet %q of %s has no header row at row %d; skipping", title, fileName, startRows.Header)
		return 0, nil
	}

	inserted, err := database.InsertIgnore(l.db, table, columns, data)
	if err != nil {
		return 0, err
	}
	log.Printf("Inserted %d rows from sheet %q of %s into %s (request date %s)",
		inserted, title, fileName, table, requestDateValue)
	return inserted, nil
}

// ensureSheetTable creates (or, on the first touch of a full refresh, drops
// and recreates) the table for one sheet. Later files feeding the same table
// within the batch reuse it as is.
func (l *DocLoader) ensureSheetTable(table string, columns []string) error {
	schema := []database.Column{
		{Name: "id", Type: database.TypeIdentity},
		{Name: "request_date", Type: database.TypeDateTime, NotNull: true},
	}
	for _, field := range columns[1:] {
		colType := database.TypeText
		if strings.Contains(strings.ToLower(field), "date") {
			colType = database.TypeDate
		}
		schema = append(schema, database.Column{Name: field, Type: colType})
	}

	if l.dropFirst && !l.dropped[table] {
		if err := database.DropTables(l.db, []string{table}); err != nil {
			return err
		}
		l.dropped[table] = true
	}
	return database.EnsureTable(l.db, table, schema, l.cfg.Doc.UniqueKeys[table])
}

// convertRow normalizes one physical data row: strings are trimmed and
// date-like fields (by template field name) are reduced to plain ISO dates.
// The second return value reports whether every converted value is empty.
func convertRow(raw []string, fields []config.FieldSpec) ([]string, bool) {
	values := make([]string, len(raw))
	empty := true
	for i, cell := range raw {
		value := strings.TrimSpace(cell)
		if value != "" && strings.Contains(strings.ToLower(fields[i].Name), "date") {
			value = normalizeDateValue(value)
		}
		if value != "" {
			empty = false
		}
		values[i] = value
	}
	return values, empty
}

// Cell layouts a date-typed template column may arrive in. Workbook cells
// come back formatted, so both ISO and spreadsheet-style forms show up.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"1/2/06",
	"1/2/2006",
	"01-02-06 15:04",
	"2006/01/02",
}

func normalizeDateValue(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return database.EncodeDate(t)
		}
	}
	return value
}
