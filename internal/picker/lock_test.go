//go:build !windows

package picker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock_Success(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "picker.lock")

	lock, err := AcquireLock(lockPath)
	require.NoError(t, err)
	defer lock.Release()

	_, err = os.Stat(lockPath)
	assert.NoError(t, err)
}

func TestAcquireLock_SecondInstanceFails(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "picker.lock")

	first, err := AcquireLock(lockPath)
	require.NoError(t, err)

	second, err := AcquireLock(lockPath)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, second)

	first.Release()

	third, err := AcquireLock(lockPath)
	require.NoError(t, err)
	third.Release()
}

func TestLock_ReleaseTwice(t *testing.T) {
	lock, err := AcquireLock(filepath.Join(t.TempDir(), "picker.lock"))
	require.NoError(t, err)
	lock.Release()
	lock.Release()

	var nilLock *Lock
	nilLock.Release()
}

func TestAcquireLock_BadPath(t *testing.T) {
	_, err := AcquireLock(filepath.Join(t.TempDir(), "missing", "picker.lock"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyRunning)
}
