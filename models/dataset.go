// models/dataset.go
package models

// Snapshot is one row of a dataset listing: one distinct snapshot key within
// a source table, with its row count and the user label if one was attached.
// Snapshot keys are carried as the ISO-8601 strings stored in the database.
type Snapshot struct {
	SnapshotKey string `csv:"snapshot_key" json:"snapshot_key"`
	RowCount    int    `csv:"row_count" json:"row_count"`
	Label       string `csv:"label" json:"label,omitempty"`
}

// DocSnapshot is a dataset listing row for the templated-document source
// type. One logical request may span several files and sheets, so each group
// also carries the sheet it came from and the originating file name.
type DocSnapshot struct {
	SnapshotKey string `csv:"snapshot_key" json:"snapshot_key"`
	RowCount    int    `csv:"row_count" json:"row_count"`
	SheetName   string `csv:"sheet_name" json:"sheet_name"`
	FileName    string `csv:"file_name" json:"file_name"`
	Label       string `csv:"label" json:"label,omitempty"`
}
