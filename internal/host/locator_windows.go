package host

import (
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

const (
	regUninstallPath      = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\Steam App ` + SteamAppID
	regUninstallWow64Path = `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall\Steam App ` + SteamAppID
	regSteamPath          = `SOFTWARE\Valve\Steam`
	installLocation       = `InstallLocation`
)

func getRegStringValue(k registry.Key, path, name string) (string, error) {
	openedKey, err := registry.OpenKey(k, path, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer openedKey.Close()

	v, _, err := openedKey.GetStringValue(name)
	if err != nil {
		return "", err
	}
	return v, nil
}

// findInstallRoot reads the Steam uninstall entry of the game, falling back
// to the default library below the Steam client directory.
func findInstallRoot() (string, error) {
	var candidates []string
	for _, path := range []string{regUninstallPath, regUninstallWow64Path} {
		if v, err := getRegStringValue(registry.LOCAL_MACHINE, path, installLocation); err == nil && v != "" {
			candidates = append(candidates, v)
		}
	}
	if steam, err := getRegStringValue(registry.CURRENT_USER, regSteamPath, "SteamPath"); err == nil && steam != "" {
		candidates = append(candidates, filepath.Join(filepath.FromSlash(steam), "steamapps", "common", GameDirName))
	}
	return firstExisting(candidates)
}
