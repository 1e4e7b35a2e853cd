// services/load_service.go
package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/pimtools/pimload/config"
	"github.com/pimtools/pimload/loader"
)

// LoadPIMFolder loads every *.csv feed export in a folder. Files are
// processed independently: a file that fails to parse is logged and skipped,
// the rest continue, and the collected errors come back joined. The label
// names the whole snapshot, not any one file, so it is applied exactly once:
// the first file that newly inserts rows consumes it.
func LoadPIMFolder(db *sql.DB, cfg *config.Config, folder string, dropTables bool, label string) (int64, error) {
	files, err := filepath.Glob(filepath.Join(folder, "*.csv"))
	if err != nil {
		return 0, fmt.Errorf("failed to scan folder %s: %w", folder, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		log.Printf("No CSV files found in %s", folder)
		return 0, nil
	}

	var (
		total        int64
		loadErrs     []error
		pendingLabel = label
		dropped      = map[string]bool{}
	)
	for _, filePath := range files {
		category, err := loader.CategoryFromFilename(filePath)
		if err != nil {
			log.Printf("ERROR skipping %s: %v", filePath, err)
			loadErrs = append(loadErrs, err)
			continue
		}

		dropFirst := dropTables && !dropped[category]
		inserted, err := loader.LoadPIMFile(db, cfg, filePath, dropFirst,
			cfg.PIM.UniqueKeys[category], pendingLabel)
		if err != nil {
			log.Printf("ERROR loading %s: %v", filePath, err)
			loadErrs = append(loadErrs, err)
			continue
		}
		dropped[category] = true

		total += inserted
		if inserted > 0 {
			pendingLabel = ""
		}
	}
	return total, errors.Join(loadErrs...)
}

// LoadHybrisFile loads one status workbook, resolving the unique key columns
// for its category from configuration.
func LoadHybrisFile(db *sql.DB, cfg *config.Config, filePath string, dropTables bool, label string) (int64, error) {
	category, err := loader.CategoryFromFilename(filePath)
	if err != nil {
		return 0, err
	}
	return loader.LoadHybrisFile(db, filePath, dropTables, cfg.Hybris.UniqueKeys[category], label)
}

// LoadDocFolder loads every *.xlsx request workbook in a folder against one
// request date. Files matching no configured prefix are skipped with a
// diagnostic but do not fail the batch; other failures are collected the
// same way as feed loads. The label is consumed by the first file that newly
// inserts rows.
func LoadDocFolder(db *sql.DB, cfg *config.Config, folder string, requestDate time.Time, dropTables bool, label string) (int64, error) {
	files, err := filepath.Glob(filepath.Join(folder, "*.xlsx"))
	if err != nil {
		return 0, fmt.Errorf("failed to scan folder %s: %w", folder, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		log.Printf("No workbooks found in %s", folder)
		return 0, nil
	}

	docLoader := loader.NewDocLoader(db, cfg, requestDate, dropTables)
	var (
		total        int64
		loadErrs     []error
		pendingLabel = label
	)
	for _, filePath := range files {
		inserted, err := docLoader.LoadFile(filePath, pendingLabel)
		if errors.Is(err, loader.ErrMissingConfig) {
			log.Printf("Skipping %s: %v", filePath, err)
			continue
		}
		if err != nil {
			log.Printf("ERROR loading %s: %v", filePath, err)
			loadErrs = append(loadErrs, err)
			continue
		}
		total += inserted
		if inserted > 0 {
			pendingLabel = ""
		}
	}
	return total, errors.Join(loadErrs...)
}
