//go:build unix && !netbsd

package safefileio

func isEFTYPE(_ error) bool {
	return false
}
