// Package listing formats filesystem objects as "ls -l -d" style rows.
package listing

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// recentWindow is how far from now a modification time still shows the
// clock instead of the year.
const recentWindow = 182 * 24 * time.Hour

// Entry is the metadata shown in one long-listing row.
type Entry struct {
	Mode    fs.FileMode
	Links   uint64
	Owner   string
	Group   string
	Size    int64
	ModTime time.Time
	Name    string
	Target  string // Symlink target, empty for other types
}

// Stat reads the metadata of path without following a final symlink.
// name is what the row shows; it defaults to path.
func Stat(path, name string) (Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, err
	}
	if name == "" {
		name = path
	}

	e := Entry{
		Mode:    info.Mode(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Name:    name,
	}
	e.Links, e.Owner, e.Group = ownership(info)

	if info.Mode()&fs.ModeSymlink != 0 {
		if target, err := os.Readlink(path); err == nil {
			e.Target = target
		}
	}
	return e, nil
}

// Format renders the entry relative to now, which decides between the
// clock and the year column.
func (e Entry) Format(now time.Time) string {
	line := fmt.Sprintf("%s %d %s %s %d %s %s",
		ModeString(e.Mode), e.Links, e.Owner, e.Group, e.Size, timeString(e.ModTime, now), e.Name)
	if e.Target != "" {
		line += " -> " + e.Target
	}
	return line
}

// Line stats path and formats it in one step.
func Line(path, name string) (string, error) {
	e, err := Stat(path, name)
	if err != nil {
		return "", err
	}
	return e.Format(time.Now()), nil
}

// ModeString renders m the way ls does, e.g. "drwxr-xr-x".
func ModeString(m fs.FileMode) string {
	var b strings.Builder
	b.Grow(10)

	switch {
	case m.IsDir():
		b.WriteByte('d')
	case m&fs.ModeSymlink != 0:
		b.WriteByte('l')
	case m&fs.ModeNamedPipe != 0:
		b.WriteByte('p')
	case m&fs.ModeSocket != 0:
		b.WriteByte('s')
	case m&fs.ModeCharDevice != 0:
		b.WriteByte('c')
	case m&fs.ModeDevice != 0:
		b.WriteByte('b')
	default:
		b.WriteByte('-')
	}

	perm := m.Perm()
	triplets := []struct {
		shift   uint
		special bool
		set     byte // Shown in the execute slot when special is set
	}{
		{6, m&fs.ModeSetuid != 0, 's'},
		{3, m&fs.ModeSetgid != 0, 's'},
		{0, m&fs.ModeSticky != 0, 't'},
	}
	for _, t := range triplets {
		bits := perm >> t.shift
		b.WriteByte(flag(bits&4 != 0, 'r'))
		b.WriteByte(flag(bits&2 != 0, 'w'))

		exec := bits&1 != 0
		switch {
		case t.special && exec:
			b.WriteByte(t.set)
		case t.special:
			b.WriteByte(t.set - 'a' + 'A')
		default:
			b.WriteByte(flag(exec, 'x'))
		}
	}
	return b.String()
}

func flag(on bool, c byte) byte {
	if on {
		return c
	}
	return '-'
}

func timeString(t, now time.Time) string {
	if d := now.Sub(t); d > recentWindow || d < -recentWindow {
		return t.Format("Jan _2  2006")
	}
	return t.Format("Jan _2 15:04")
}
