package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DirName is the folder created under the base storage directory.
const DirName = "FrameWatch"

// ResolveDirectory returns the writable directory for snapshots and metadata,
// creating it if absent. The base is ScreenshotDirectory when set, otherwise the
// XDG data home, otherwise the OS temp dir.
func ResolveDirectory(c *Config) (string, error) {
	base := ""
	if c != nil {
		base = c.ScreenshotDirectory
	}
	if base == "" {
		base = xdg.DataHome
	}
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return dir, nil
}
