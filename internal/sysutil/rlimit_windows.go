//go:build windows
// +build windows

package sysutil

import "math"

// RlimitNofile reports the current soft limit on open file descriptors.
// Windows has no rlimit equivalent, so the limit is effectively unbounded.
func RlimitNofile() (uint64, error) {
	return math.MaxUint64, nil
}
