package resources

import (
	"os"
	"path/filepath"
)

const portableIndicator = "portable.txt"
const portableDir = "test9918_UserData"

// portablePath returns the base path for resources if the portable indicator
// file is alongside the executable
func portablePath() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(exe)
	if _, err := os.Stat(filepath.Join(dir, portableIndicator)); err != nil {
		return "", false
	}
	return filepath.Join(dir, portableDir), true
}
