// Package lock keeps two runs from sharing a log directory.
package lock

import (
	"os"
	"path/filepath"
	"strconv"
)

// FileName is the lock file created inside the locked directory.
const FileName = "fastaload.lock"

// Lock is held until Release.
type Lock struct {
	file *os.File
}

// Acquire takes the lock on directory without blocking and records the
// process id in the lock file.
func Acquire(directory string) (*Lock, error) {
	f, err := acquire(filepath.Join(directory, FileName))
	if err != nil {
		return nil, err
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	}
	return &Lock{file: f}, nil
}

// Release gives up the lock. It must be called exactly once.
func (l *Lock) Release() {
	release(l.file)
	l.file = nil
}
