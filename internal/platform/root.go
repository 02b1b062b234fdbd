package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindConfig looks upwards from startDir for stitch.yaml and returns its
// absolute path. The search stops at the first directory holding a .git
// entry, so a config outside the current repository is never picked up.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, DefaultConfigFile) {
			return filepath.Join(dir, DefaultConfigFile), nil
		}
		if hasFile(dir, ".git") {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found", DefaultConfigFile)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
