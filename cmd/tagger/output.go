package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matsen/tagger/internal/listing"
	"github.com/matsen/tagger/internal/query"
)

// printResult writes a list result in plain or long form. Names that are
// not absolute are taken relative to dir when they are statted.
func printResult(w io.Writer, res query.Result, long bool, dir string, logger *log.Logger) error {
	if long {
		return printLong(w, res, dir, logger)
	}

	switch res.Kind {
	case query.KindObjectTags:
		for _, ot := range res.Objects {
			if _, err := fmt.Fprintf(w, "%s %s\n", ot.Object, ot.Tags); err != nil {
				return err
			}
		}
	default:
		if len(res.Names) > 0 {
			if _, err := fmt.Fprintln(w, strings.Join(res.Names, " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// printLong writes a "total N" header and one ls -l -d style row per entry.
// Object rows are prefixed by their joined tags.
func printLong(w io.Writer, res query.Result, dir string, logger *log.Logger) error {
	if _, err := fmt.Fprintf(w, "total %d\n", res.Len()); err != nil {
		return err
	}

	if res.Kind == query.KindObjectTags {
		for _, ot := range res.Objects {
			line, err := listing.Line(ot.Object, ot.Object)
			if err != nil {
				logger.Warn("Can't stat", "path", ot.Object, "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "%s %s\n", ot.Tags, line); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range res.Names {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, name)
		}
		line, err := listing.Line(path, name)
		if err != nil {
			logger.Warn("Can't stat", "path", path, "err", err)
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
