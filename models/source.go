// models/source.go
package models

// SourceType identifies which kind of vendor export a file is. The source
// type picks the ingestion strategy, the table-naming rule and the label
// table a snapshot belongs to.
type SourceType string

const (
	// SourcePIM is a delimited-text item/product feed export. The snapshot
	// key is parsed out of the file name.
	SourcePIM SourceType = "pim"

	// SourceHybris is the single-sheet SKU status workbook. The snapshot key
	// is the file timestamp rounded to the nearest second.
	SourceHybris SourceType = "hybris"

	// SourceDoc is a templated multi-sheet DoC request workbook. The snapshot
	// key is the caller-supplied request date.
	SourceDoc SourceType = "doc"
)

// LabelTable returns the name of the label table for this source type.
// All label tables share the same shape: (id, snapshot_key, label).
func (s SourceType) LabelTable() string {
	return "labels_" + string(s)
}

// Valid reports whether s is one of the known source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourcePIM, SourceHybris, SourceDoc:
		return true
	}
	return false
}
