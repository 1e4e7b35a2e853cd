// database/schema.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaConflict is returned when a destination table already exists with
// a column set that cannot satisfy the requested unique key. The table is
// never altered automatically; the caller has to drop and reload.
var ErrSchemaConflict = errors.New("existing table schema conflicts with requested shape")

// ColumnType enumerates the declared types used by dynamically created
// tables. Column sets are discovered from file headers at load time, so the
// schema is described as data rather than as static structs.
type ColumnType string

const (
	TypeText     ColumnType = "TEXT"
	TypeDate     ColumnType = "DATE"
	TypeDateTime ColumnType = "DATETIME"
	TypeIdentity ColumnType = "INTEGER PRIMARY KEY AUTOINCREMENT"
)

// Column is one column of a dynamically derived table definition.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

// quoteIdent brackets a dynamic identifier (table or column name) so that
// arbitrary header text is safe to use. Values are never interpolated; they
// always go through ? placeholders.
func quoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "") + "]"
}

// EnsureTable creates the table and, when uniqueKeyColumns is non-empty, a
// deterministically named unique index over those columns. Both statements
// use IF NOT EXISTS, so repeated calls for the same category are no-ops.
//
// If the table already exists, every requested unique-key column must already
// be one of its columns; otherwise ErrSchemaConflict is returned.
func EnsureTable(db *sql.DB, table string, columns []Column, uniqueKeyColumns []string) error {
	exists, err := TableExists(db, table)
	if err != nil {
		return err
	}
	if exists && len(uniqueKeyColumns) > 0 {
		existing, err := TableColumns(db, table)
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, c := range existing {
			have[c] = true
		}
		for _, c := range uniqueKeyColumns {
			if !have[c] {
				return fmt.Errorf("table %s has no column %q required by the unique key: %w",
					table, c, ErrSchemaConflict)
			}
		}
	}

	fields := make([]string, 0, len(columns))
	for _, col := range columns {
		field := quoteIdent(col.Name) + " " + string(col.Type)
		if col.NotNull {
			field += " NOT NULL"
		}
		fields = append(fields, field)
	}
	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(table), strings.Join(fields, ", "))
	if _, err := db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	if len(uniqueKeyColumns) > 0 {
		quoted := make([]string, 0, len(uniqueKeyColumns))
		for _, c := range uniqueKeyColumns {
			quoted = append(quoted, quoteIdent(c))
		}
		indexSQL := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)",
			quoteIdent(table+"_unique_index"), quoteIdent(table), strings.Join(quoted, ", "))
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create unique index on %s: %w", table, err)
		}
	}
	return nil
}

// DropTables unconditionally removes the given tables if present. Used only
// when the caller opts into replacing all existing data for a category.
func DropTables(db *sql.DB, tables []string) error {
	for _, table := range tables {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + quoteIdent(table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

// TableExists reports whether a table with the given name exists.
func TableExists(db *sql.DB, table string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT count(name) FROM sqlite_master WHERE type = 'table' AND name = ?",
		table,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}

// TableColumns returns the column names of a table, in declaration order.
func TableColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query("PRAGMA table_info(" + quoteIdent(table) + ")")
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			typ       string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info of %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
