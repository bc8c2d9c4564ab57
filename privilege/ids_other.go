//go:build !unix

package privilege

func readIDs() (realUID, effectiveUID int, err error) {
	return -1, -1, ErrPlatformUnsupported
}

func seteuid(_ int) error {
	return ErrPlatformUnsupported
}

func setuidInfo(_ string) (setuid, rootOwned bool) {
	return false, false
}
