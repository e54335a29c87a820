// Package storage persists tag records in SQLite and dumps them as JSONL.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection holding the tags table.
type DB struct {
	db   *sql.DB
	path string
}

// Record is one row of the tags table.
type Record struct {
	ID     int64  `json:"id,omitempty"`
	Tag    string `json:"tag"`
	Parent string `json:"parent"`
	Object string `json:"object"`
	IsDir  bool   `json:"is_dir"`
}

// Object is a resolved filesystem object about to be tagged.
type Object struct {
	Path  string
	IsDir bool
}

// ObjectTags pairs an object path with its comma-joined tags.
type ObjectTags struct {
	Object string
	Tags   string
}

// OpenError reports that the database file could not be opened or initialized.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("Can't access database %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// selectRecordFields contains the standard field list for SELECT queries.
const selectRecordFields = `id, tag, parent, object, is_dir`

// OpenDB opens or creates a SQLite database at the given path.
// Any failure is returned as an *OpenError.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	// sql.Open is lazy; make sure the file is really usable
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &OpenError{Path: path, Err: err}
	}

	d := &DB{db: db, path: path}
	if err := d.ensureSchema(); err != nil {
		db.Close()
		return nil, &OpenError{Path: path, Err: err}
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the file the database was opened from.
func (d *DB) Path() string {
	return d.path
}

// ensureSchema creates the tags table if it doesn't exist.
func (d *DB) ensureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY NOT NULL,
			tag CHAR(255) NOT NULL,
			parent CHAR(1024) NOT NULL,
			object CHAR(1024) NOT NULL,
			is_dir INTEGER DEFAULT 0
		)
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Insert adds a single tag row. The parent is derived from the object path.
func (d *DB) Insert(tag, object string, isDir bool) error {
	_, err := d.db.Exec(`
		INSERT INTO tags (tag, parent, object, is_dir)
		VALUES (?, ?, ?, ?)
	`, tag, filepath.Dir(object), object, isDir)
	if err != nil {
		return fmt.Errorf("inserting tag %q for %s: %w", tag, object, err)
	}
	return nil
}

// InsertBatch tags every object with tag in a single transaction.
// Either all rows are committed or none are.
func (d *DB) InsertBatch(tag string, objects []Object) error {
	if len(objects) == 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO tags (tag, parent, object, is_dir)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing tags insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range objects {
		if _, err := stmt.Exec(tag, filepath.Dir(o.Path), o.Path, o.IsDir); err != nil {
			return fmt.Errorf("inserting tag %q for %s: %w", tag, o.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tags: %w", err)
	}
	return nil
}

// DeleteFilter selects rows to delete. Empty fields don't constrain.
// A filter with no tags and no objects deletes nothing.
type DeleteFilter struct {
	Tags    []string
	Objects []string
	IsDir   *bool
}

// Delete removes the rows matched by f in one statement and returns how many
// were deleted.
func (d *DB) Delete(f DeleteFilter) (int64, error) {
	if len(f.Tags) == 0 && len(f.Objects) == 0 {
		return 0, nil
	}

	var w where
	w.in("tag", f.Tags)
	w.in("object", f.Objects)
	if f.IsDir != nil {
		w.add("is_dir = ?", *f.IsDir)
	}

	res, err := d.db.Exec("DELETE FROM tags"+w.sql(), w.args...)
	if err != nil {
		return 0, fmt.Errorf("deleting tags: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tags: %w", err)
	}
	return n, nil
}

// DistinctTags returns every tag ever stored, sorted.
// No existence filtering is applied.
func (d *DB) DistinctTags() ([]string, error) {
	rows, err := d.db.Query(`SELECT DISTINCT tag FROM tags ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// Scope restricts QueryObjects to objects near a directory.
type Scope int

const (
	// ScopeNone matches objects anywhere.
	ScopeNone Scope = iota
	// ScopePrefix matches objects whose parent starts with the directory.
	ScopePrefix
	// ScopeExact matches objects whose parent is exactly the directory.
	ScopeExact
)

func (s Scope) String() string {
	switch s {
	case ScopePrefix:
		return "prefix"
	case ScopeExact:
		return "exact"
	default:
		return "none"
	}
}

// ObjectFilter contains the criteria for QueryObjects.
type ObjectFilter struct {
	Tags  []string // Object must carry at least one of these (OR logic)
	Scope Scope
	Dir   string // Directory the scope is applied to
	IsDir *bool  // nil means files and directories
}

// QueryObjects returns the distinct objects carrying any of the filter's tags.
// Each object appears once no matter how many of the tags it has.
func (d *DB) QueryObjects(f ObjectFilter) ([]string, error) {
	if len(f.Tags) == 0 {
		return nil, nil
	}

	var w where
	w.in("tag", f.Tags)
	switch f.Scope {
	case ScopePrefix:
		w.add("instr(parent, ?) = 1", f.Dir)
	case ScopeExact:
		w.add("parent = ?", f.Dir)
	}
	if f.IsDir != nil {
		w.add("is_dir = ?", *f.IsDir)
	}

	rows, err := d.db.Query("SELECT object FROM tags"+w.sql()+" GROUP BY object ORDER BY object", w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying objects by tag: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// QueryTagsForObjects returns the tags attached to each of the given objects.
// Grouping is by exact path string; tags keep insertion order, duplicates included.
// Objects with no tags are omitted.
func (d *DB) QueryTagsForObjects(objects []string) ([]ObjectTags, error) {
	if len(objects) == 0 {
		return nil, nil
	}

	var w where
	w.in("object", objects)

	rows, err := d.db.Query("SELECT object, tag FROM tags"+w.sql()+" ORDER BY object, id", w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying tags by object: %w", err)
	}
	defer rows.Close()

	var result []ObjectTags
	var tags []string
	flush := func() {
		if len(tags) > 0 {
			result[len(result)-1].Tags = strings.Join(tags, ",")
		}
		tags = tags[:0]
	}
	for rows.Next() {
		var object, tag string
		if err := rows.Scan(&object, &tag); err != nil {
			return nil, err
		}
		if len(result) == 0 || result[len(result)-1].Object != object {
			if len(result) > 0 {
				flush()
			}
			result = append(result, ObjectTags{Object: object})
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) > 0 {
		flush()
	}
	return result, nil
}

// AllObjects returns every distinct tagged object path.
func (d *DB) AllObjects() ([]string, error) {
	rows, err := d.db.Query(`SELECT DISTINCT object FROM tags ORDER BY object`)
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// AllRecords returns every row in insertion order.
func (d *DB) AllRecords() ([]Record, error) {
	rows, err := d.db.Query(`SELECT ` + selectRecordFields + ` FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ImportRecords appends records in one transaction, keeping their stored
// parent as is. Record IDs are ignored; new ones are assigned.
func (d *DB) ImportRecords(records []Record) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO tags (tag, parent, object, is_dir)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing tags insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if r.Tag == "" || r.Object == "" {
			return 0, fmt.Errorf("record %d: tag and object are required", i+1)
		}
		parent := r.Parent
		if parent == "" {
			parent = filepath.Dir(r.Object)
		}
		if _, err := stmt.Exec(r.Tag, parent, r.Object, r.IsDir); err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(records), nil
}

// Count returns the total number of rows.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM tags").Scan(&count)
	return count, err
}

// where accumulates AND-ed clauses and their bound arguments.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// in adds "column IN (?, ?, ...)" with one placeholder per value.
// Empty values add nothing.
func (w *where) in(column string, values []string) {
	if len(values) == 0 {
		return
	}
	w.clauses = append(w.clauses, column+" IN ("+placeholders(len(values))+")")
	for _, v := range values {
		w.args = append(w.args, v)
	}
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// placeholders returns n comma-separated "?" markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Tag, &r.Parent, &r.Object, &r.IsDir); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
