// Package host locates the Space Engineers installation and its data folder.
package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SteamAppID is the Steam application id of Space Engineers
	SteamAppID = "244850"

	// GameDirName is the folder name of the game below steamapps/common
	GameDirName = "SpaceEngineers"

	// EnvInstallPath overrides the detected game installation root
	EnvInstallPath = "MDK_SE_PATH"

	// EnvDataPath overrides the detected game data folder
	EnvDataPath = "MDK_SE_DATA_PATH"
)

// ErrNotInstalled is returned when no game installation can be found
var ErrNotInstalled = errors.New("space engineers installation not found")

// Locator finds game directories. It implements interfaces.GameLocator.
type Locator struct {
	getenv    func(string) string
	findRoot  func() (string, error)
	configDir func() (string, error)
}

// NewLocator creates a locator using the environment and platform lookups
func NewLocator() *Locator {
	return &Locator{
		getenv:    os.Getenv,
		findRoot:  findInstallRoot,
		configDir: os.UserConfigDir,
	}
}

// InstallPath returns the component directory below the game installation
func (l *Locator) InstallPath(component string) (string, error) {
	root := strings.TrimSpace(l.getenv(EnvInstallPath))
	if root == "" {
		var err error
		if root, err = l.findRoot(); err != nil {
			return "", err
		}
	}
	return filepath.Join(root, component), nil
}

// DataPath returns a directory below the game's data folder. The folder lives
// in the user's roaming configuration directory (%AppData% on Windows).
func (l *Locator) DataPath(segments ...string) (string, error) {
	base := strings.TrimSpace(l.getenv(EnvDataPath))
	if base == "" {
		dir, err := l.configDir()
		if err != nil {
			return "", fmt.Errorf("failed to find user data directory: %w", err)
		}
		base = filepath.Join(dir, GameDirName)
	}
	return filepath.Join(append([]string{base}, segments...)...), nil
}

// firstExisting returns the first candidate that is an existing directory
func firstExisting(candidates []string) (string, error) {
	for _, c := range candidates {
		if dirExists(c) {
			return c, nil
		}
	}
	return "", ErrNotInstalled
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
