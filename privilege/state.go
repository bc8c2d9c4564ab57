package privilege

// RootUID is the user id of the superuser.
const RootUID = 0

// RunningAs describes the privilege context of the calling process.
type RunningAs int

// Privilege states. The zero value is not a valid state.
const (
	// Root means both the real and the effective user id are 0.
	Root RunningAs = iota + 1
	// Suid means the effective user id is 0 but the real user id is not, i.e. the
	// executable carries a root-owned setuid bit whose privilege is not claimed yet.
	Suid
	// User means the effective user id is not 0.
	User
)

func (r RunningAs) String() string {
	switch r {
	case Root:
		return "root"
	case Suid:
		return "suid"
	case User:
		return "user"
	default:
		return "unknown"
	}
}

// Classify maps a (real, effective) user id pair to a privilege state.
func Classify(realUID, effectiveUID int) RunningAs {
	switch {
	case realUID == RootUID && effectiveUID == RootUID:
		return Root
	case effectiveUID == RootUID:
		return Suid
	default:
		return User
	}
}

// Check reports the privilege state of the current process.
// On Unix it never fails; on other platforms it returns ErrPlatformUnsupported.
func Check() (RunningAs, error) {
	ruid, euid, err := readIDs()
	if err != nil {
		return 0, err
	}
	return Classify(ruid, euid), nil
}
