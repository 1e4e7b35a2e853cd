// database/snapshot_store.go
package database

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/pimtools/pimload/models"
)

// ListPIMSnapshots lists the feed datasets: one row per distinct export date
// in item_availability with the item count and the attached label, if any.
func ListPIMSnapshots(db *sql.DB, descending bool) ([]models.Snapshot, error) {
	return listSnapshots(db, models.SourcePIM, "item_availability", "export_date", "Item no.", descending)
}

// ListHybrisSnapshots lists the status workbook datasets from skus_status.
func ListHybrisSnapshots(db *sql.DB, descending bool) ([]models.Snapshot, error) {
	return listSnapshots(db, models.SourceHybris, "skus_status", "export_date", "Item no.", descending)
}

func listSnapshots(
	db *sql.DB,
	sourceType models.SourceType,
	table string,
	keyColumn string,
	countColumn string,
	descending bool,
) ([]models.Snapshot, error) {
	exists, err := TableExists(db, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		// Nothing loaded yet for this source type; an empty listing, not an error.
		return []models.Snapshot{}, nil
	}
	if err := ensureLabelTable(db, sourceType); err != nil {
		return nil, err
	}

	querySQL := fmt.Sprintf(`
		SELECT grouped.snapshot_key,
		       grouped.row_count,
		       IFNULL(labels.label, '')
		FROM (
			SELECT %[1]s AS snapshot_key,
			       count(%[2]s) AS row_count
			FROM %[3]s
			GROUP BY %[1]s
		) AS grouped
		LEFT JOIN %[4]s AS labels
			ON grouped.snapshot_key = labels.snapshot_key
		ORDER BY grouped.snapshot_key %[5]s`,
		quoteIdent(keyColumn), quoteIdent(countColumn), quoteIdent(table),
		quoteIdent(sourceType.LabelTable()), orderDirection(descending))

	rows, err := db.Query(querySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s snapshots: %w", sourceType, err)
	}
	defer rows.Close()

	snapshots := []models.Snapshot{}
	for rows.Next() {
		var s models.Snapshot
		if err := rows.Scan(&s.SnapshotKey, &s.RowCount, &s.Label); err != nil {
			return nil, fmt.Errorf("failed to scan %s snapshot row: %w", sourceType, err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// ListDocSnapshots lists the templated-document datasets as a union across
// every known sheet table. tables maps each table name to the business-key
// column counted per request date; each group also reports the sheet it came
// from and the originating file. Tables that do not exist yet are skipped.
func ListDocSnapshots(db *sql.DB, tables map[string]string, descending bool) ([]models.DocSnapshot, error) {
	if err := ensureLabelTable(db, models.SourceDoc); err != nil {
		return nil, err
	}

	// Stable output order across the union.
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	snapshots := []models.DocSnapshot{}
	for _, table := range names {
		exists, err := TableExists(db, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}

		querySQL := fmt.Sprintf(`
			SELECT grouped.snapshot_key,
			       grouped.row_count,
			       grouped.file_name,
			       IFNULL(labels.label, '')
			FROM (
				SELECT [request_date] AS snapshot_key,
				       count(%[1]s) AS row_count,
				       [file_name] AS file_name
				FROM %[2]s
				GROUP BY [request_date]
			) AS grouped
			LEFT JOIN %[3]s AS labels
				ON grouped.snapshot_key = labels.snapshot_key
			ORDER BY grouped.snapshot_key %[4]s`,
			quoteIdent(tables[table]), quoteIdent(table),
			quoteIdent(models.SourceDoc.LabelTable()), orderDirection(descending))

		rows, err := db.Query(querySQL)
		if err != nil {
			return nil, fmt.Errorf("failed to list doc snapshots from %s: %w", table, err)
		}
		for rows.Next() {
			s := models.DocSnapshot{SheetName: table}
			if err := rows.Scan(&s.SnapshotKey, &s.RowCount, &s.FileName, &s.Label); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan doc snapshot row from %s: %w", table, err)
			}
			snapshots = append(snapshots, s)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return snapshots, nil
}

func orderDirection(descending bool) string {
	if descending {
		return "DESC"
	}
	return "ASC"
}
