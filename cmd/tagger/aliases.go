package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newLstagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lstag [flags] [tag...]",
		Short: "Show file(s) or folder(s) with the given tag(s)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			switch {
			case a.opts.showTags:
				return a.showTags()
			case len(args) > 0:
				return a.list(args, nil)
			default:
				return cmd.Help()
			}
		},
	}

	a.addShowTagsFlag(cmd)
	a.addAllFlag(cmd, "Print all file(s)/dir(s) with the given tags (by default only from current dir)")
	a.addLongFlag(cmd)
	a.addCommonFlags(cmd, "Manage tag(s) recursively")
	return cmd
}

func newLsotagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsotag [flags] [pattern...]",
		Short: "Show the tags of file(s) or folder(s)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.list(nil, args)
		},
	}

	a.addLongFlag(cmd)
	a.addCommonFlags(cmd, "Manage file(s)/folder(s) recursively")
	return cmd
}

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [flags] pattern... -t tag...",
		Short: "Set tags on file(s) or folder(s)",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(a.opts.tags) == 0 {
				return errors.New("at least one tag is required (-t)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			return a.add(a.opts.tags, args)
		},
	}

	a.addCommonFlags(cmd, "Manage file(s)/dir(s) recursively")
	a.addTagsFlag(cmd, "Tag(s) that you want set to file(s)/dir(s)")
	return cmd
}

func newRmtagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rmtag [flags] [pattern...] [-t tag...]",
		Short: "Remove tags from file(s) or folder(s)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.start(cmd, args)
			if len(args) == 0 && len(a.opts.tags) == 0 {
				return cmd.Help()
			}
			return a.remove(a.opts.tags, args)
		},
	}

	a.addCommonFlags(cmd, "Manage file(s)/dir(s) recursively")
	a.addTagsFlag(cmd, "Tag(s) that you want removed from file(s) or dir(s)")
	return cmd
}
