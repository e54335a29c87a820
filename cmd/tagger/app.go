package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matsen/tagger/internal/config"
	"github.com/matsen/tagger/internal/query"
	"github.com/matsen/tagger/internal/storage"
	"github.com/spf13/cobra"
)

// options holds every flag any of the commands may register.
type options struct {
	showTags  bool
	delete    bool
	all       bool
	long      bool
	recursive bool
	dirs      bool
	files     bool
	verbose   bool
	tags      []string
}

// app is the state shared by one invocation.
type app struct {
	name   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	opts   options

	running bool // RunE has started; later errors are not usage errors
	logger  *log.Logger
	db      *storage.DB
}

func newApp(name string, stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		name:   name,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: log.NewWithOptions(stderr, log.Options{Prefix: "tagger", Level: log.WarnLevel}),
	}
}

// start marks the command as running and applies -v.
func (a *app) start(cmd *cobra.Command, args []string) {
	a.running = true
	if a.opts.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}
	a.logger.Debug("Received parameters",
		"command", a.name,
		"args", strings.Join(args, " "),
		"tags", strings.Join(a.opts.tags, ","),
		"all", a.opts.all,
		"delete", a.opts.delete,
		"long", a.opts.long,
		"recursive", a.opts.recursive,
		"dirs", a.opts.dirs,
		"files", a.opts.files,
	)
}

// openDatabase loads the configuration and opens the tag database.
func (a *app) openDatabase() (*storage.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	cfg, err := config.Load(config.DefaultLoadOptions())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	switch cfg.Kind {
	case config.SourceDefault:
		a.logger.Debug("Config not found, using default settings")
	default:
		a.logger.Debug("Using config", "kind", cfg.Kind, "path", cfg.Source)
	}
	if cfg.FromEnv {
		a.logger.Debug("Database path overridden", "env", config.EnvDBPath)
	}
	a.logger.Debug("Database", "path", cfg.DBPath)

	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// engine opens the database and builds a query engine in the working directory.
func (a *app) engine() (*query.Engine, error) {
	db, err := a.openDatabase()
	if err != nil {
		return nil, err
	}
	return query.New(db, query.Options{
		Logger:  a.logger,
		Confirm: query.NewPromptConfirmer(a.stdin, a.stderr),
	})
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func (a *app) flags() query.Flags {
	return query.Flags{
		All:       a.opts.all,
		Recursive: a.opts.recursive,
		FilesOnly: a.opts.files,
		DirsOnly:  a.opts.dirs,
	}
}

// Flag registration helpers. Each command picks the subset it accepts.

func (a *app) addShowTagsFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&a.opts.showTags, "show-tags", "A", false, "Show all tags and exit")
}

func (a *app) addAllFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().BoolVarP(&a.opts.all, "all", "a", false, usage)
}

func (a *app) addLongFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&a.opts.long, "ls", "l", false, "Extended output information (like 'ls -l')")
}

func (a *app) addTagsFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringArrayVarP(&a.opts.tags, "tags", "t", nil, usage)
}

// addCommonFlags registers -r, -d/-f and -v.
func (a *app) addCommonFlags(cmd *cobra.Command, recursiveUsage string) {
	cmd.Flags().BoolVarP(&a.opts.recursive, "recursive", "r", false, recursiveUsage)
	cmd.Flags().BoolVarP(&a.opts.dirs, "directories", "d", false, "Manage only directories")
	cmd.Flags().BoolVarP(&a.opts.files, "files", "f", false, "Manage only files")
	cmd.Flags().BoolVarP(&a.opts.verbose, "verbose", "v", false, "Increase output verbosity")
	cmd.MarkFlagsMutuallyExclusive("directories", "files")
}

// showTags prints every stored tag, one per line.
func (a *app) showTags() error {
	e, err := a.engine()
	if err != nil {
		return err
	}
	tags, err := e.ShowTags()
	if err != nil {
		return err
	}
	for _, t := range tags {
		fmt.Fprintln(a.stdout, t)
	}
	return nil
}

// list runs a list request and prints the result.
func (a *app) list(tags, patterns []string) error {
	e, err := a.engine()
	if err != nil {
		return err
	}
	res, err := e.List(tags, patterns, a.flags())
	if err != nil {
		return err
	}
	return printResult(a.stdout, res, a.opts.long, e.Dir(), a.logger)
}

func (a *app) add(tags, patterns []string) error {
	e, err := a.engine()
	if err != nil {
		return err
	}
	_, err = e.Add(tags, patterns, a.flags())
	return err
}

func (a *app) remove(tags, patterns []string) error {
	e, err := a.engine()
	if err != nil {
		return err
	}
	_, err = e.Remove(tags, patterns, a.flags())
	return err
}
