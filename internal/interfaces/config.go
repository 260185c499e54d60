package interfaces

// Settings exposes the MDK options a wizard run reads. Each accessor can fail
// when the backing store cannot produce a value, which is distinct from the
// value being absent.
type Settings interface {
	// UseManualGameBinPath reports whether GameBinPath overrides the detected game path
	UseManualGameBinPath() (bool, error)

	// GameBinPath returns the configured game binary directory
	GameBinPath() (string, error)

	// UseManualOutputPath reports whether OutputPath overrides the default script folder
	UseManualOutputPath() (bool, error)

	// OutputPath returns the configured script output directory
	OutputPath() (string, error)

	// Minify returns the minify flag and whether it is set at all
	Minify() (value bool, ok bool, err error)

	// PromoteMDK returns the branding flag and whether it is set at all
	PromoteMDK() (value bool, ok bool, err error)
}

// SettingsSource opens the settings store
type SettingsSource interface {
	// Open fails when the store cannot be reached or parsed
	Open() (Settings, error)
}

// GameLocator finds directories of the host game installation
type GameLocator interface {
	// InstallPath returns a sub-directory of the game installation, such as "Bin64"
	InstallPath(component string) (string, error)

	// DataPath returns a directory below the game's writable data folder
	DataPath(segments ...string) (string, error)
}
