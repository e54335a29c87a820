//go:build unix

package listing

import (
	"io/fs"
	"os/user"
	"strconv"
	"syscall"
)

func ownership(info fs.FileInfo) (links uint64, owner, group string) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 1, "?", "?"
	}

	uid := strconv.FormatUint(uint64(st.Uid), 10)
	gid := strconv.FormatUint(uint64(st.Gid), 10)
	owner, group = uid, gid
	if u, err := user.LookupId(uid); err == nil {
		owner = u.Username
	}
	if g, err := user.LookupGroupId(gid); err == nil {
		group = g.Name
	}
	return uint64(st.Nlink), owner, group
}
