//go:build unix

package privilege

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Idempotent(t *testing.T) {
	first, err := Check()
	require.NoError(t, err)

	second, err := Check()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, []RunningAs{Root, Suid, User}, first)
}

func TestReadIDs_MatchesProcessIdentity(t *testing.T) {
	ruid, euid, err := readIDs()
	require.NoError(t, err)
	assert.Equal(t, os.Getuid(), ruid)
	assert.Equal(t, os.Geteuid(), euid)
}

func TestSetuidInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	setuid, _ := setuidInfo(path)
	assert.False(t, setuid)

	require.NoError(t, os.Chmod(path, 0o755|os.ModeSetuid))
	setuid, rootOwned := setuidInfo(path)
	assert.True(t, setuid)
	assert.Equal(t, os.Getuid() == 0, rootOwned)

	setuid, rootOwned = setuidInfo(filepath.Join(t.TempDir(), "missing"))
	assert.False(t, setuid)
	assert.False(t, rootOwned)
}

func TestRelaySignals(t *testing.T) {
	e, _ := newTestEscalator(t, 1000, 1000, nil)
	child := &fakeChild{}

	stop := relaySignals(child, e.logger)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	assert.Eventually(t, func() bool {
		return len(child.received()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []os.Signal{syscall.SIGTERM}, child.received(), "SIGINT must not be forwarded")
}
