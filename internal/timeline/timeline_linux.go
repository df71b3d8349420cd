package timeline

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime prefers the statx birth time and falls back to the inode
// change time on filesystems that do not record one.
func creationTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_CTIME, &stx); err != nil {
		return time.Time{}, fmt.Errorf("statx %s: %w", path, err)
	}
	ts := stx.Ctime
	if stx.Mask&unix.STATX_BTIME != 0 {
		ts = stx.Btime
	}
	return time.Unix(ts.Sec, int64(ts.Nsec)), nil
}
