//go:build unix && !linux

package privilege

import "golang.org/x/sys/unix"

func resuid() (realUID, effectiveUID int) {
	return unix.Getuid(), unix.Geteuid()
}
