//go:build windows

package lock

import (
	"fmt"
	"os"
	"path/filepath"
)

// the lock is the existence of the file, created atomically
func acquire(lockFilePath string) (*os.File, error) {
	f, err := os.OpenFile(lockFilePath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("directory %s is already in use by another fastaload run", filepath.Dir(lockFilePath))
	}

	return f, nil
}

func release(f *os.File) {
	name := f.Name()
	f.Close()
	os.Remove(name)
}
