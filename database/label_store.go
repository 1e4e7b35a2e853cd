// database/label_store.go
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pimtools/pimload/models"
)

// ensureLabelTable lazily creates the label table for a source type. All
// label tables share one shape: at most one label per snapshot key.
func ensureLabelTable(db *sql.DB, sourceType models.SourceType) error {
	if !sourceType.Valid() {
		return fmt.Errorf("unknown source type %q", sourceType)
	}
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           INTEGER  PRIMARY KEY AUTOINCREMENT,
			snapshot_key DATETIME NOT NULL UNIQUE,
			label        TEXT
		)`, quoteIdent(sourceType.LabelTable()))
	if _, err := db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create label table for %s: %w", sourceType, err)
	}
	return nil
}

// SetLabel attaches a label to the (sourceType, snapshotKey) pair,
// overwriting any label already stored for that snapshot.
func SetLabel(db *sql.DB, sourceType models.SourceType, snapshotKey time.Time, label string) error {
	if err := ensureLabelTable(db, sourceType); err != nil {
		return err
	}
	upsertSQL := fmt.Sprintf(`
		INSERT INTO %s (snapshot_key, label)
		VALUES (?, ?)
		ON CONFLICT (snapshot_key) DO UPDATE SET label = excluded.label`,
		quoteIdent(sourceType.LabelTable()))
	if _, err := db.Exec(upsertSQL, EncodeDateTime(snapshotKey), label); err != nil {
		return fmt.Errorf("failed to set label for %s snapshot %s: %w",
			sourceType, EncodeDateTime(snapshotKey), err)
	}
	return nil
}

// GetLabel returns the label attached to the (sourceType, snapshotKey) pair.
// The second return value reports whether a label exists.
func GetLabel(db *sql.DB, sourceType models.SourceType, snapshotKey time.Time) (string, bool, error) {
	if err := ensureLabelTable(db, sourceType); err != nil {
		return "", false, err
	}
	querySQL := fmt.Sprintf("SELECT label FROM %s WHERE snapshot_key = ?",
		quoteIdent(sourceType.LabelTable()))

	var label sql.NullString
	err := db.QueryRow(querySQL, EncodeDateTime(snapshotKey)).Scan(&label)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get label for %s snapshot %s: %w",
			sourceType, EncodeDateTime(snapshotKey), err)
	}
	return label.String, true, nil
}
