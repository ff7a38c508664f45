package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/logger"
)

// ErrLocked is returned when another live vitalflow process holds the lock.
var ErrLocked = errors.New("store is in use by another vitalflow process")

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
	sleepFunc       = time.Sleep
)

// Lock is an exclusive lockfile next to a data file. The file holds
// "<pid>|<RFC3339 time>".
type Lock struct {
	path string
	pid  int
}

// LockPath returns the lockfile path for a data file.
func LockPath(dataPath string) string {
	return filepath.Join(filepath.Dir(dataPath), constants.LockfileName)
}

// AcquireLock takes the lock for dataPath, clearing stale locks left by dead
// processes. It retries for a short while before returning ErrLocked.
func AcquireLock(dataPath string) (*Lock, error) {
	path := LockPath(dataPath)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	pid := getpidFunc()
	content := strconv.Itoa(pid) + constants.LockfileSeparator + time.Now().UTC().Format(time.RFC3339)

	for attempt := 0; attempt <= constants.LockMaxRetries; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, alive := lockHolder(path)
		if !alive {
			logger.Warn("Removing stale lockfile", "path", path, "pid", holder)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
			}
			continue
		}
		sleepFunc(constants.LockRetryDelay)
	}
	return nil, fmt.Errorf("%w (lockfile %s)", ErrLocked, path)
}

// lockHolder reads the pid in the lockfile and reports whether that process
// is a running vitalflow.
func lockHolder(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		// Removed between our create attempt and the read; retry.
		return 0, !os.IsNotExist(err)
	}
	pidStr, _, _ := strings.Cut(strings.TrimSpace(string(content)), constants.LockfileSeparator)
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return 0, false
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	return pid, strings.HasPrefix(process.Executable(), constants.AppName)
}

// Release removes the lockfile if this lock still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	pidStr, _, _ := strings.Cut(string(content), constants.LockfileSeparator)
	if pidStr != strconv.Itoa(l.pid) {
		return nil
	}
	return os.Remove(l.path)
}
