package privilege

import (
	"os"
	"time"
)

// Status describes the privilege situation of the current process
type Status struct {
	State           string    `json:"state"`
	RealUID         int       `json:"real_uid"`
	EffectiveUID    int       `json:"effective_uid"`
	Executable      string    `json:"executable,omitempty"`
	SetuidBit       bool      `json:"setuid_bit"`
	OwnedByRoot     bool      `json:"owned_by_root"`
	HelperPath      string    `json:"helper_path"`
	HelperAvailable bool      `json:"helper_available"`
	CheckedAt       time.Time `json:"checked_at"`
	Error           string    `json:"error,omitempty"`
}

// Status inspects ids, the running executable and the elevation helper. It never
// changes the process identity.
func (e *Escalator) Status() Status {
	status := Status{
		HelperPath: e.helperPath,
		CheckedAt:  time.Now(),
	}

	ruid, euid, err := e.readIDs()
	if err != nil {
		status.Error = err.Error()
		status.RealUID, status.EffectiveUID = -1, -1
		return status
	}
	status.State = Classify(ruid, euid).String()
	status.RealUID = ruid
	status.EffectiveUID = euid
	status.HelperAvailable = isExecutableFile(e.helperPath)

	exe, err := e.executable()
	if err != nil {
		e.logger.Warn("Failed to get executable path for setuid detection", "error", err)
		return status
	}
	status.Executable = exe
	status.SetuidBit, status.OwnedByRoot = setuidInfo(exe)

	return status
}

func isExecutableFile(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular() && fileInfo.Mode().Perm()&0o111 != 0
}
