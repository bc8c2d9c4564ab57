//go:build linux

package privilege

import "golang.org/x/sys/unix"

// resuid reads the real and effective uid with a single getresuid call.
func resuid() (realUID, effectiveUID int) {
	ruid, euid, _ := unix.Getresuid()
	return ruid, euid
}
