package main

import (
	"github.com/spf13/cobra"
)

func newTaggerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagger [flags] [pattern...] [-t tag...]",
		Short: "Tag your files or directories",
		Long: `tagger attaches free-form tags to files and directories and finds them again.

With patterns and -t it adds tags, with either one alone it lists, and with
-D it removes. Patterns are globs resolved against the current directory.

Examples:
  tagger notes.txt *.md -t work draft     Tag files
  tagger -t work                          List tagged objects here
  tagger -r -t work                       ...and below, as relative paths
  tagger -a -t work                       ...anywhere, as absolute paths
  tagger notes.txt                        Show the tags of notes.txt
  tagger -D notes.txt -t draft            Remove a tag after confirmation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			o := a.opts

			switch {
			case o.showTags:
				return a.showTags()
			case o.delete:
				return a.remove(o.tags, args)
			case len(o.tags) > 0 && len(args) > 0:
				return a.add(o.tags, args)
			case len(o.tags) > 0 || len(args) > 0:
				return a.list(o.tags, args)
			default:
				return cmd.Help()
			}
		},
	}

	a.addShowTagsFlag(cmd)
	cmd.Flags().BoolVarP(&a.opts.delete, "delete", "D", false, "Delete tag(s) from file(s) or folder(s)")
	a.addAllFlag(cmd, "Print all files/directories with tags (by default only from current dir)")
	a.addLongFlag(cmd)
	a.addCommonFlags(cmd, "Manage tag(s) recursively")
	a.addTagsFlag(cmd, "Tag(s) that you want set to file(s) or folder(s)")
	return cmd
}
