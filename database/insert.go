// database/insert.go
package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// InsertIgnore bulk-inserts rows into the table with insert-or-ignore
// semantics: rows whose unique-key combination already exists are silently
// skipped. All rows from one call are committed as a single transaction.
//
// Returns the number of rows that were newly inserted; ignored duplicates do
// not count, which is what makes re-running a load a safe no-op.
func InsertIgnore(db *sql.DB, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s: %w", table, err)
	}
	defer tx.Rollback()

	quoted := make([]string, 0, len(columns))
	for _, c := range columns {
		quoted = append(quoted, quoteIdent(c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), placeholders,
	))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("row has %d values, table %s expects %d", len(row), table, len(columns))
		}
		res, err := stmt.Exec(row...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert row into %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected for %s: %w", table, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert into %s: %w", table, err)
	}
	return inserted, nil
}
