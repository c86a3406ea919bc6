//go:build !windows
// +build !windows

package sysutil

import "golang.org/x/sys/unix"

// RlimitNofile reports the current soft limit on open file descriptors.
func RlimitNofile() (cur uint64, err error) {
	var r unix.Rlimit
	err = unix.Getrlimit(unix.RLIMIT_NOFILE, &r)
	return r.Cur, err
}
