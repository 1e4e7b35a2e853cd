// render.go
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/pimtools/pimload/models"
)

// printSnapshots writes one listing section as an aligned text table.
func printSnapshots(w io.Writer, title string, snapshots []models.Snapshot) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "%-19s\t%9s\t%s\n", "Snapshot", "Row count", "Label")
	fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("-", 19), strings.Repeat("-", 9), strings.Repeat("-", 5))
	for _, s := range snapshots {
		fmt.Fprintf(w, "%-19s\t%9d\t%s\n", s.SnapshotKey, s.RowCount, s.Label)
	}
}

func printDocSnapshots(w io.Writer, title string, snapshots []models.DocSnapshot) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "%-19s\t%9s\t%-30s\t%-40s\t%s\n", "Snapshot", "Row count", "Sheet", "File", "Label")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", strings.Repeat("-", 19), strings.Repeat("-", 9), strings.Repeat("-", 30), strings.Repeat("-", 40), strings.Repeat("-", 5))
	for _, s := range snapshots {
		fmt.Fprintf(w, "%-19s\t%9d\t%-30s\t%-40s\t%s\n",
			s.SnapshotKey, s.RowCount, s.SheetName, s.FileName, s.Label)
	}
}

// printCSV writes all three listings as CSV, one block per source type.
func printCSV(w io.Writer, pim, hybris []models.Snapshot, doc []models.DocSnapshot) error {
	for _, block := range []struct {
		name string
		rows any
	}{
		{"pim", pim},
		{"hybris", hybris},
		{"doc", doc},
	} {
		data, err := csvutil.Marshal(block.rows)
		if err != nil {
			return fmt.Errorf("failed to render %s listing as CSV: %w", block.name, err)
		}
		fmt.Fprintf(w, "# %s\n", block.name)
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
