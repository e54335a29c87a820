// Package resolve expands user path patterns into canonical filesystem objects.
//
// Patterns are doublestar-compatible globs. Every match is made absolute with
// symlinks resolved, filtered by type and deduplicated, so two patterns that
// reach the same file yield one object.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// ErrConflictingTypes is returned when both files-only and dirs-only are requested.
var ErrConflictingTypes = errors.New("files-only and dirs-only are mutually exclusive")

// TypeFilter restricts resolution to one kind of object.
type TypeFilter int

const (
	AnyType TypeFilter = iota
	FilesOnly
	DirsOnly
)

// TypeFilterFrom converts the two command-line switches into a TypeFilter.
func TypeFilterFrom(files, dirs bool) (TypeFilter, error) {
	switch {
	case files && dirs:
		return AnyType, ErrConflictingTypes
	case files:
		return FilesOnly, nil
	case dirs:
		return DirsOnly, nil
	default:
		return AnyType, nil
	}
}

// IsDir returns the is_dir value the filter pins, or nil for AnyType.
func (f TypeFilter) IsDir() *bool {
	var v bool
	switch f {
	case FilesOnly:
		v = false
	case DirsOnly:
		v = true
	default:
		return nil
	}
	return &v
}

func (f TypeFilter) keep(info os.FileInfo) bool {
	switch f {
	case FilesOnly:
		return info.Mode().IsRegular()
	case DirsOnly:
		return info.IsDir()
	default:
		return true
	}
}

// Object is a resolved filesystem object.
type Object struct {
	Path  string // Absolute, symlinks resolved
	IsDir bool
}

// Options controls pattern expansion.
type Options struct {
	// Dir is the directory relative patterns are expanded in.
	// Empty means the process working directory.
	Dir string

	// Recursive searches below Dir (or below an absolute directory pattern)
	// instead of matching a single level.
	Recursive bool

	Types TypeFilter

	// Logger receives the resolved set at debug level. nil disables it.
	Logger *log.Logger
}

// Resolve expands patterns into a sorted, deduplicated list of objects.
// A pattern that matches nothing contributes nothing.
func Resolve(patterns []string, opts Options) ([]Object, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		dir = wd
	}

	seen := make(map[string]bool)
	var objects []Object

	for _, pattern := range patterns {
		matches, err := expand(pattern, dir, opts.Recursive)
		if err != nil {
			return nil, err
		}

		for _, m := range matches {
			// Stat follows symlinks, so a link to a file counts as a file
			info, err := os.Stat(m)
			if err != nil {
				if opts.Types != AnyType {
					continue
				}
				info = nil
			} else if !opts.Types.keep(info) {
				continue
			}

			path := canonical(m)
			if seen[path] {
				continue
			}
			seen[path] = true
			objects = append(objects, Object{Path: path, IsDir: info != nil && info.IsDir()})
		}
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Path < objects[j].Path })

	if opts.Logger != nil {
		opts.Logger.Debug("Pattern(s) resolved", "objects", strings.Join(Paths(objects), ", "))
	}

	return objects, nil
}

// Paths returns the path of every object.
func Paths(objects []Object) []string {
	paths := make([]string, len(objects))
	for i, o := range objects {
		paths[i] = o.Path
	}
	return paths
}

// expand turns one user pattern into raw glob matches. A bracket or brace
// that never closes matches itself, so a malformed pattern degrades to a
// literal lookup instead of failing.
func expand(pattern, dir string, recursive bool) ([]string, error) {
	for _, p := range []string{pattern, literalize(pattern), escapeMeta(pattern)} {
		globs, extra := plan(p, pattern, dir, recursive)
		if !valid(globs) {
			continue
		}

		matches := extra
		for _, g := range globs {
			found, err := glob(g)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", pattern, err)
			}
			matches = append(matches, found...)
		}
		return matches, nil
	}

	// Nothing parses as a glob, so the pattern can only name itself
	path := pattern
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return exists(path), nil
}

// plan builds the globs for pattern p. raw is the pattern as typed, used to
// decide whether an absolute pattern names an existing directory.
func plan(p, raw, dir string, recursive bool) (globs, extra []string) {
	switch {
	case !recursive:
		return []string{join(dir, p)}, nil
	case filepath.IsAbs(raw) && isDir(raw):
		// The directory itself plus everything below it
		return []string{join(raw, "**")}, []string{raw}
	case filepath.IsAbs(p):
		return []string{p}, nil
	default:
		return []string{join(dir, "**/"+p)}, nil
	}
}

func valid(globs []string) bool {
	for _, g := range globs {
		if !doublestar.ValidatePathPattern(g) {
			return false
		}
	}
	return true
}

// glob expands g. A pattern without wildcards is looked up with Lstat so a
// dangling symlink is found by name just as a wildcard finds it. Wildcard
// matches on hidden names are dropped unless the pattern asked for them.
func glob(g string) ([]string, error) {
	if indexMeta(g) < 0 {
		return exists(unescapeMeta(g)), nil
	}

	found, err := doublestar.FilepathGlob(g)
	if err != nil {
		return nil, err
	}
	matches := found[:0]
	for _, m := range found {
		if visible(g, m) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// exists returns path if anything, a dangling symlink included, is there.
func exists(path string) []string {
	if _, err := os.Lstat(path); err != nil {
		return nil
	}
	return []string{path}
}

// visible reports whether match may be returned for glob g. A wildcard
// segment only matches a name starting with a dot when the segment starts
// with one too, and ** never passes through hidden directories.
func visible(g, match string) bool {
	gsegs := strings.Split(filepath.ToSlash(g), "/")
	msegs := strings.Split(filepath.ToSlash(match), "/")

	k := 0
	for k < len(gsegs) && k < len(msegs) && indexMeta(gsegs[k]) < 0 {
		k++
	}
	pat, rest := gsegs[k:], msegs[k:]

	star := -1
	for i, seg := range pat {
		if seg == "**" {
			star = i
			break
		}
	}
	if star < 0 {
		for i := 0; i < len(rest) && i < len(pat); i++ {
			if hidden(rest[i]) && !dotted(pat[i]) {
				return false
			}
		}
		return true
	}

	head, tail := pat[:star], pat[star+1:]
	if len(rest) < len(head)+len(tail) {
		return true
	}
	for i, seg := range head {
		if hidden(rest[i]) && !dotted(seg) {
			return false
		}
	}
	for _, name := range rest[len(head) : len(rest)-len(tail)] {
		if hidden(name) {
			return false
		}
	}
	end := rest[len(rest)-len(tail):]
	for i, seg := range tail {
		if hidden(end[i]) && !dotted(seg) {
			return false
		}
	}
	return true
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func dotted(seg string) bool {
	return strings.HasPrefix(strings.TrimPrefix(seg, `\`), ".")
}

// join anchors a relative pattern at dir; absolute patterns pass through.
// dir is a literal path, so its glob metacharacters are escaped.
func join(dir, pattern string) string {
	if filepath.IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(escapeMeta(dir), pattern)
}

const metaChars = "*?[]{}"

// escapeMeta backslash-escapes glob metacharacters. Windows paths use the
// backslash as separator, so they are left alone there.
func escapeMeta(path string) string {
	if runtime.GOOS == "windows" || !strings.ContainsAny(path, metaChars) {
		return path
	}
	var b strings.Builder
	for _, r := range path {
		if strings.ContainsRune(metaChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var metaReplacer = strings.NewReplacer(`\*`, "*", `\?`, "?", `\[`, "[", `\]`, "]", `\{`, "{", `\}`, "}")

func unescapeMeta(pattern string) string {
	if runtime.GOOS == "windows" {
		return pattern
	}
	return metaReplacer.Replace(pattern)
}

// indexMeta returns the index of the first unescaped wildcard, or -1.
func indexMeta(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', '{':
			return i
		case '\\':
			if runtime.GOOS != "windows" {
				i++
			}
		}
	}
	return -1
}

// literalize escapes every '[' and '{' that is never closed.
func literalize(pattern string) string {
	if runtime.GOOS == "windows" {
		return pattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			i++
			c = pattern[i]
		case c == '[' && classEnd(pattern[i+1:]) < 0:
			b.WriteByte('\\')
		case c == '{' && !strings.Contains(pattern[i+1:], "}"):
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// classEnd returns the index of the ']' closing a character class whose
// body starts at s, or -1. Classes never span a path separator.
func classEnd(s string) int {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	j := 0
	if j < len(s) && (s[j] == '!' || s[j] == '^') {
		j++
	}
	if j < len(s) && s[j] == ']' {
		j++
	}
	if k := strings.IndexByte(s[j:], ']'); k >= 0 {
		return j + k
	}
	return -1
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// canonical returns the absolute, symlink-free form of path.
// A dangling link keeps its absolute path.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
