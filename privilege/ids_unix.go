//go:build unix

package privilege

import (
	"os"
	"syscall"
)

// readIDs and seteuid are the only places that touch process identity.
// Everything else receives them as injected function values.

func readIDs() (realUID, effectiveUID int, err error) {
	realUID, effectiveUID = resuid()
	return realUID, effectiveUID, nil
}

// syscall.Seteuid applies the change to every OS thread of the runtime.
func seteuid(uid int) error {
	return syscall.Seteuid(uid)
}

// setuidInfo reports whether path has the setuid bit set and whether it is owned
// by root. Only that combination yields a latent root privilege on execution.
func setuidInfo(path string) (setuid, rootOwned bool) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	setuid = fileInfo.Mode()&os.ModeSetuid != 0
	if stat, ok := fileInfo.Sys().(*syscall.Stat_t); ok {
		rootOwned = stat.Uid == RootUID
	}
	return setuid, rootOwned
}
