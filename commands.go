// commands.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pimtools/pimload/config"
	"github.com/pimtools/pimload/database"
	"github.com/pimtools/pimload/models"
	"github.com/pimtools/pimload/services"
)

type appFlags struct {
	dbFile     string
	configPath string
}

// open resolves configuration and opens the database. Precedence for the
// database file: --db-file flag, PIMLOAD_DB_FILE, config file, default.
func (f *appFlags) open() (*sql.DB, *config.Config, error) {
	configPath := f.configPath
	if configPath == "" {
		configPath = os.Getenv("PIMLOAD_CONFIG")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	dbFile := f.dbFile
	if dbFile == "" {
		dbFile = os.Getenv("PIMLOAD_DB_FILE")
	}
	if dbFile == "" {
		dbFile = cfg.Database.File
	}

	db, err := database.OpenDB(dbFile)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

func newRootCommand() *cobra.Command {
	flags := &appFlags{}

	root := &cobra.Command{
		Use:           "pimload",
		Short:         "Load PIM, Hybris and DoC exports into a local snapshot database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.dbFile, "db-file", "", "database file (default from config)")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to pimload.yaml")

	root.AddCommand(
		newLoadPIMCommand(flags),
		newLoadHybrisCommand(flags),
		newLoadDocCommand(flags),
		newListCommand(flags),
		newLabelCommand(flags),
	)
	return root
}

func newLoadPIMCommand(flags *appFlags) *cobra.Command {
	var (
		dropTables bool
		label      string
	)
	cmd := &cobra.Command{
		Use:   "load-pim <folder>",
		Short: "Load all CSV feed exports from a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := flags.open()
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			total, err := services.LoadPIMFolder(db, cfg, args[0], dropTables, label)
			log.Printf("Loaded %d new rows from %s", total, args[0])
			return err
		},
	}
	cmd.Flags().BoolVar(&dropTables, "drop-tables", false, "drop destination tables before loading (full refresh)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "label to attach to the loaded snapshot")
	return cmd
}

func newLoadHybrisCommand(flags *appFlags) *cobra.Command {
	var (
		dropTables bool
		label      string
	)
	cmd := &cobra.Command{
		Use:   "load-hybris <file>",
		Short: "Load a SKU status workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := flags.open()
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			total, err := services.LoadHybrisFile(db, cfg, args[0], dropTables, label)
			log.Printf("Loaded %d new rows from %s", total, args[0])
			return err
		},
	}
	cmd.Flags().BoolVar(&dropTables, "drop-tables", false, "drop the destination table before loading (full refresh)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "label to attach to the loaded snapshot")
	return cmd
}

func newLoadDocCommand(flags *appFlags) *cobra.Command {
	var (
		dropTables bool
		label      string
	)
	cmd := &cobra.Command{
		Use:   "load-doc <folder> <request-date>",
		Short: "Load all DoC request workbooks from a folder for one request date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestDate, err := time.Parse(database.DateLayout, args[1])
			if err != nil {
				return fmt.Errorf("request date must be YYYY-MM-DD: %w", err)
			}

			db, cfg, err := flags.open()
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			total, err := services.LoadDocFolder(db, cfg, args[0], requestDate, dropTables, label)
			log.Printf("Loaded %d new rows from %s", total, args[0])
			return err
		},
	}
	cmd.Flags().BoolVar(&dropTables, "drop-tables", false, "drop destination tables before loading (full refresh)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "label to attach to the loaded snapshot")
	return cmd
}

func newListCommand(flags *appFlags) *cobra.Command {
	var (
		descending bool
		format     string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the loaded datasets per source type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "csv" {
				return fmt.Errorf("unknown format %q (want table or csv)", format)
			}

			db, cfg, err := flags.open()
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			pim, err := database.ListPIMSnapshots(db, descending)
			if err != nil {
				return err
			}
			hybris, err := database.ListHybrisSnapshots(db, descending)
			if err != nil {
				return err
			}
			doc, err := database.ListDocSnapshots(db, cfg.Doc.DatasetTables, descending)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "csv" {
				return printCSV(out, pim, hybris, doc)
			}
			printSnapshots(out, "PIM datasets", pim)
			printSnapshots(out, "Hybris datasets", hybris)
			printDocSnapshots(out, "DoC datasets", doc)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&descending, "descending", "d", false, "list newest snapshots first")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or csv")
	return cmd
}

func newLabelCommand(flags *appFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label <pim|hybris|doc> <snapshot-key> <text>",
		Short: "Attach or overwrite the label of a snapshot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceType := models.SourceType(args[0])
			if !sourceType.Valid() {
				return fmt.Errorf("unknown source type %q (want pim, hybris or doc)", args[0])
			}
			snapshotKey, err := database.DecodeDateTime(args[1])
			if err != nil {
				return err
			}

			db, _, err := flags.open()
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			return database.SetLabel(db, sourceType, snapshotKey, args[2])
		},
	}
	return cmd
}
