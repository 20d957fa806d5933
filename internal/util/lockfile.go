package util

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/nakachan-ing/dolist/internal/model"
	"gopkg.in/yaml.v3"
)

var ErrLocked = errors.New("lock is held by another process")

// CreateLockFile writes a lock file for the current process. An existing lock
// whose process is gone is taken over.
func CreateLockFile(lockFileName string) (model.LockFile, error) {
	if held, err := ReadLockFile(lockFileName); err == nil {
		if held.Pid != os.Getpid() && processAlive(held.Pid) {
			return held, fmt.Errorf("%w (pid %d, since %s)", ErrLocked, held.Pid, held.TimeStamp)
		}
	} else if !os.IsNotExist(err) {
		return model.LockFile{}, err
	}

	t := time.Now()
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	if user == "" {
		user = "unknown"
	}

	lockFile := model.LockFile{
		ID:        t.Format("20060102150405"),
		User:      user,
		Pid:       os.Getpid(),
		TimeStamp: t.UTC().Format(time.RFC3339),
	}

	info, err := yaml.Marshal(&lockFile)
	if err != nil {
		return model.LockFile{}, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(lockFileName, info, 0o644); err != nil {
		return model.LockFile{}, fmt.Errorf("failed to write lock file: %w", err)
	}
	return lockFile, nil
}

func ReadLockFile(lockFileName string) (model.LockFile, error) {
	var lockFile model.LockFile
	data, err := os.ReadFile(lockFileName)
	if err != nil {
		return lockFile, err
	}
	if err := yaml.Unmarshal(data, &lockFile); err != nil {
		return lockFile, fmt.Errorf("failed to parse lock file %s: %w", lockFileName, err)
	}
	return lockFile, nil
}

// RemoveLockFile removes the lock only if it belongs to this process.
func RemoveLockFile(lockFileName string) error {
	held, err := ReadLockFile(lockFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if held.Pid != os.Getpid() {
		return fmt.Errorf("%w (pid %d)", ErrLocked, held.Pid)
	}
	if err := os.Remove(lockFileName); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
