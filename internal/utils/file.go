package utils

import (
	"os"
	"path/filepath"
)

// Indicates if the given path exists or not (works for both files and directories)
func PathExists(filepath string) bool {
	_, err := os.Stat(filepath)
	return err == nil
}

// EnsureAbsolute joins a relative filePath to directory. Absolute paths and
// "-" (standard input) are returned cleaned but otherwise unchanged.
func EnsureAbsolute(directory string, filePath string) string {
	if filePath == "-" {
		return filePath
	}
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
