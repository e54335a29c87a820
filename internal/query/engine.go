// Package query answers tag requests by combining path resolution with the tag store.
//
// Every request is a single pass: patterns are resolved into objects, the
// store is queried or mutated, and list results are filtered down to objects
// that still exist before being shaped for presentation.
package query

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matsen/tagger/internal/resolve"
	"github.com/matsen/tagger/internal/storage"
)

var (
	// ErrNoTarget is returned by List when neither objects nor tags are left to query.
	ErrNoTarget = errors.New("no such file or directory")

	// ErrEmptyTag is returned when a tag is the empty string.
	ErrEmptyTag = errors.New("tag must not be empty")
)

// Store is the part of the tag store the engine needs.
type Store interface {
	InsertBatch(tag string, objects []storage.Object) error
	Delete(f storage.DeleteFilter) (int64, error)
	DistinctTags() ([]string, error)
	QueryObjects(f storage.ObjectFilter) ([]string, error)
	QueryTagsForObjects(objects []string) ([]storage.ObjectTags, error)
	AllObjects() ([]string, error)
}

// Flags are the per-request switches shared by all commands.
type Flags struct {
	All       bool // Ignore the current directory when listing by tag
	Recursive bool // Resolve patterns and scope tag listings below the current directory
	FilesOnly bool
	DirsOnly  bool
}

// Validate rejects flag combinations that can't be honored.
func (f Flags) Validate() error {
	_, err := resolve.TypeFilterFrom(f.FilesOnly, f.DirsOnly)
	return err
}

func (f Flags) types() resolve.TypeFilter {
	t, _ := resolve.TypeFilterFrom(f.FilesOnly, f.DirsOnly)
	return t
}

// Options configures an Engine.
type Options struct {
	// Dir is the current directory requests are scoped to.
	// Empty means the process working directory.
	Dir string

	// Logger receives verbose diagnostics. nil discards them.
	Logger *log.Logger

	// Confirm gates every deletion. nil refuses all deletions.
	Confirm Confirmer
}

// Engine answers add, list and remove requests.
type Engine struct {
	store   Store
	dir     string
	logger  *log.Logger
	confirm Confirmer
}

// New creates an Engine over store. The directory is made absolute with
// symlinks resolved so it compares equal to stored parents.
func New(store Store, opts Options) (*Engine, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	confirm := opts.Confirm
	if confirm == nil {
		confirm = ConfirmFunc(func(string) bool { return false })
	}

	return &Engine{store: store, dir: abs, logger: logger, confirm: confirm}, nil
}

// Dir returns the directory requests are scoped to.
func (e *Engine) Dir() string {
	return e.dir
}

// AddResult reports what Add tagged.
type AddResult struct {
	Objects []resolve.Object
	Rows    int // Rows inserted across all tags
}

// Add tags every object the patterns resolve to with every tag.
// Existing (tag, object) pairs are not checked, so repeating an add stores
// the pair again.
func (e *Engine) Add(tags, patterns []string, f Flags) (AddResult, error) {
	if err := f.Validate(); err != nil {
		return AddResult{}, err
	}
	if err := checkTags(tags); err != nil {
		return AddResult{}, err
	}

	objects, err := e.resolve(patterns, f)
	if err != nil {
		return AddResult{}, err
	}
	result := AddResult{Objects: objects}
	if len(objects) == 0 {
		e.logger.Debug("Nothing to tag")
		return result, nil
	}

	batch := make([]storage.Object, len(objects))
	for i, o := range objects {
		batch[i] = storage.Object{Path: o.Path, IsDir: o.IsDir}
	}

	for _, tag := range tags {
		e.logger.Debug("Adding tag", "tag", tag, "objects", strings.Join(resolve.Paths(objects), ", "))
		if err := e.store.InsertBatch(tag, batch); err != nil {
			return result, err
		}
		result.Rows += len(batch)
	}
	return result, nil
}

// List answers a generic list request. Objects resolved from patterns take
// precedence; otherwise objects carrying the tags are listed.
func (e *Engine) List(tags, patterns []string, f Flags) (Result, error) {
	if err := f.Validate(); err != nil {
		return Result{}, err
	}

	objects, err := e.resolve(patterns, f)
	if err != nil {
		return Result{}, err
	}

	switch {
	case len(objects) > 0:
		return e.ListByObject(resolve.Paths(objects))
	case len(tags) > 0:
		return e.ListByTag(tags, f)
	default:
		return Result{}, ErrNoTarget
	}
}

// ListByObject returns the tags of each object. Objects that no longer exist
// are dropped.
func (e *Engine) ListByObject(objects []string) (Result, error) {
	e.logger.Debug("Listing tags", "objects", strings.Join(objects, ", "))

	found, err := e.store.QueryTagsForObjects(objects)
	if err != nil {
		return Result{}, err
	}

	result := Result{Kind: KindObjectTags}
	for _, ot := range found {
		if !exists(ot.Object) {
			continue
		}
		result.Objects = append(result.Objects, ot)
	}
	return result, nil
}

// ListByTag returns objects carrying any of the tags.
//
// By default only objects directly in the current directory match and they
// are named by their base name. Recursive widens the match to parents that
// start with the current directory and names become relative to it. All
// drops the directory scope and names are absolute paths.
func (e *Engine) ListByTag(tags []string, f Flags) (Result, error) {
	if err := f.Validate(); err != nil {
		return Result{}, err
	}
	e.logger.Debug("Listing objects", "tags", strings.Join(tags, ", "))

	filter := storage.ObjectFilter{
		Tags:  tags,
		Dir:   e.dir,
		IsDir: f.types().IsDir(),
	}
	var name func(string) string
	switch {
	case f.All:
		filter.Scope = storage.ScopeNone
		name = func(p string) string { return p }
	case f.Recursive:
		filter.Scope = storage.ScopePrefix
		name = e.relative
	default:
		filter.Scope = storage.ScopeExact
		name = filepath.Base
	}

	objects, err := e.store.QueryObjects(filter)
	if err != nil {
		return Result{}, err
	}

	result := Result{Kind: KindNames}
	for _, o := range objects {
		if !exists(o) {
			continue
		}
		result.Names = append(result.Names, name(o))
	}
	return result, nil
}

// Remove deletes tags after asking for confirmation. Which rows go depends
// on what was supplied:
//
//   - tags and patterns: those tags from the resolved objects
//   - patterns only: every tag of the resolved objects
//   - tags only: those tags everywhere, or only on files/directories
//   - nothing: no-op
//
// Patterns that resolve to nothing remove nothing. A declined confirmation
// returns 0 with no error.
func (e *Engine) Remove(tags, patterns []string, f Flags) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	var objects []string
	if len(patterns) > 0 {
		resolved, err := e.resolve(patterns, f)
		if err != nil {
			return 0, err
		}
		if len(resolved) == 0 {
			e.logger.Debug("Nothing to remove")
			return 0, nil
		}
		objects = resolve.Paths(resolved)
	}

	var question string
	var filter storage.DeleteFilter
	switch {
	case len(tags) > 0 && len(objects) > 0:
		question = fmt.Sprintf("Remove tag(s) '%s' from file(s)/dir(s): %s?",
			strings.Join(tags, ", "), strings.Join(objects, ", "))
		filter = storage.DeleteFilter{Tags: tags, Objects: objects}
	case len(objects) > 0:
		question = fmt.Sprintf("Remove all tags from file(s)/dir(s): %s?", strings.Join(objects, ", "))
		filter = storage.DeleteFilter{Objects: objects}
	case len(tags) > 0:
		suffix := ""
		switch f.types() {
		case resolve.FilesOnly:
			suffix = " from all files"
		case resolve.DirsOnly:
			suffix = " from all dirs"
		}
		question = fmt.Sprintf("Remove tag(s) '%s'%s?", strings.Join(tags, "', '"), suffix)
		filter = storage.DeleteFilter{Tags: tags, IsDir: f.types().IsDir()}
	default:
		return 0, nil
	}

	if !e.confirm.Confirm(question) {
		return 0, nil
	}

	n, err := e.store.Delete(filter)
	if err != nil {
		return 0, err
	}
	e.logger.Debug("Removed tags", "rows", n)
	return n, nil
}

// Prune deletes every row whose object no longer exists, after confirmation.
// Listing never does this on its own.
func (e *Engine) Prune() (int64, error) {
	objects, err := e.store.AllObjects()
	if err != nil {
		return 0, err
	}

	var stale []string
	for _, o := range objects {
		if !exists(o) {
			stale = append(stale, o)
		}
	}
	if len(stale) == 0 {
		e.logger.Debug("No missing objects")
		return 0, nil
	}

	question := fmt.Sprintf("Remove all tags from %d missing file(s)/dir(s): %s?", len(stale), strings.Join(stale, ", "))
	if !e.confirm.Confirm(question) {
		return 0, nil
	}

	n, err := e.store.Delete(storage.DeleteFilter{Objects: stale})
	if err != nil {
		return 0, err
	}
	e.logger.Debug("Pruned tags", "rows", n)
	return n, nil
}

// ShowTags returns every tag in the store, including tags whose objects are gone.
func (e *Engine) ShowTags() ([]string, error) {
	return e.store.DistinctTags()
}

func (e *Engine) resolve(patterns []string, f Flags) ([]resolve.Object, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	return resolve.Resolve(patterns, resolve.Options{
		Dir:       e.dir,
		Recursive: f.Recursive,
		Types:     f.types(),
		Logger:    e.logger,
	})
}

// relative names p relative to the engine directory. A path that can't be
// expressed that way is returned unchanged.
func (e *Engine) relative(p string) string {
	r, err := filepath.Rel(e.dir, p)
	if err != nil {
		return p
	}
	return r
}

func checkTags(tags []string) error {
	for _, t := range tags {
		if t == "" {
			return ErrEmptyTag
		}
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
