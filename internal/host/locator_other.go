//go:build !windows

package host

import (
	"os"
	"path/filepath"
)

// findInstallRoot checks the usual Steam library locations
func findInstallRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	libraries := []string{
		filepath.Join(home, ".local/share/Steam"),
		filepath.Join(home, ".steam/steam"),
		filepath.Join(home, ".steam/root"),
		filepath.Join(home, ".var/app/com.valvesoftware.Steam/data/Steam"),
	}
	candidates := make([]string, 0, len(libraries))
	for _, lib := range libraries {
		candidates = append(candidates, filepath.Join(lib, "steamapps", "common", GameDirName))
	}
	return firstExisting(candidates)
}
