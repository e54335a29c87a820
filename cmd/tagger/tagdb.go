package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/matsen/tagger/internal/storage"
	"github.com/spf13/cobra"
)

func newTagdbCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagdb",
		Short: "Inspect and maintain the tag database",
		Long: `Maintenance commands for the tag database.

The database location comes from ~/.tagger.conf, the XDG config file,
/etc/tagger.conf or TAGGER_DB_PATH, the same way the other commands find it.`,
	}
	cmd.PersistentFlags().BoolVarP(&a.opts.verbose, "verbose", "v", false, "Increase output verbosity")

	cmd.AddCommand(
		newTagdbInfoCmd(a),
		newTagdbExportCmd(a),
		newTagdbImportCmd(a),
		newTagdbPruneCmd(a),
	)
	return cmd
}

func newTagdbInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show database location and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			db, err := a.openDatabase()
			if err != nil {
				return err
			}

			rows, err := db.Count()
			if err != nil {
				return err
			}
			tags, err := db.DistinctTags()
			if err != nil {
				return err
			}
			objects, err := db.AllObjects()
			if err != nil {
				return err
			}

			size := "unknown"
			if info, err := os.Stat(db.Path()); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}

			fmt.Fprintf(a.stdout, "Database: %s (%s)\n", db.Path(), size)
			fmt.Fprintf(a.stdout, "Rows:     %s\n", humanize.Comma(int64(rows)))
			fmt.Fprintf(a.stdout, "Tags:     %s\n", humanize.Comma(int64(len(tags))))
			fmt.Fprintf(a.stdout, "Objects:  %s\n", humanize.Comma(int64(len(objects))))
			return nil
		},
	}
}

func newTagdbExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every tag row as JSONL",
		Long: `Write every tag row as one JSON object per line, to the file if given,
otherwise to stdout.

Example:
  tagdb export tags.jsonl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			records, err := db.AllRecords()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return storage.WriteJSONL(a.stdout, records)
			}
			if err := storage.WriteJSONLFile(args[0], records); err != nil {
				return err
			}
			a.logger.Debug("Exported", "rows", len(records), "path", args[0])
			return nil
		},
	}
}

func newTagdbImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append tag rows from a JSONL file",
		Long: `Append the rows of a JSONL file written by "tagdb export".

Row ids in the file are ignored. The whole file is imported or nothing is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			records, err := storage.ReadJSONLFile(args[0])
			if err != nil {
				return err
			}
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			n, err := db.ImportRecords(records)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Imported %d rows\n", n)
			return nil
		},
	}
}

func newTagdbPruneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove tags of files and directories that no longer exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			e, err := a.engine()
			if err != nil {
				return err
			}
			n, err := e.Prune()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Removed %d rows\n", n)
			return nil
		},
	}
}
