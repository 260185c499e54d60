package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"mdk-wizard/internal/interfaces"
)

// Option keys as they appear in the options file. The environment variable
// for a key is MDK_ followed by the upper-cased key.
const (
	KeyUseManualGameBinPath = "use_manual_game_bin_path"
	KeyGameBinPath          = "game_bin_path"
	KeyUseManualOutputPath  = "use_manual_output_path"
	KeyOutputPath           = "output_path"
	KeyMinify               = "minify"
	KeyPromoteMDK           = "promote_mdk"
)

// Manager opens the MDK options store. It implements interfaces.SettingsSource.
type Manager struct {
	path  string
	flags map[string]interface{} // Store flag values for precedence
}

// NewManager creates a new options manager
func NewManager() *Manager {
	return &Manager{
		flags: make(map[string]interface{}),
	}
}

// SetConfigPath sets the options file path
func (m *Manager) SetConfigPath(path string) {
	if path != "" {
		m.path = expandPath(path)
	}
}

// SetFlag sets a flag value for precedence resolution
func (m *Manager) SetFlag(key string, value interface{}) {
	m.flags[key] = value
}

// Path returns the options file that Open reads
func (m *Manager) Path() (string, error) {
	if m.path != "" {
		return m.path, nil
	}
	return DefaultPath()
}

// DefaultPath returns the default options file location
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "mdk", "options.toml"), nil
}

// newViper builds a fresh viper instance so every Open re-reads the store
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("MDK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Minify and promote_mdk have no defaults: absence is meaningful to callers.
	v.SetDefault(KeyUseManualGameBinPath, false)
	v.SetDefault(KeyGameBinPath, "")
	v.SetDefault(KeyUseManualOutputPath, false)
	v.SetDefault(KeyOutputPath, "")
	return v
}

// Open reads the options store. Precedence is flags > env > file > defaults.
// A missing options file is not an error; an unreadable one is.
func (m *Manager) Open() (interfaces.Settings, error) {
	path, err := m.Path()
	if err != nil {
		return nil, err
	}

	v := newViper()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read options file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to access options file %s: %w", path, err)
	}

	// Apply flag overrides (highest precedence)
	for key, val := range m.flags {
		if val != nil {
			v.Set(key, val)
		}
	}

	return &Options{v: v}, nil
}

// Options is a snapshot of the options store
type Options struct {
	v *viper.Viper
}

var _ interfaces.Settings = (*Options)(nil)

// UseManualGameBinPath reports whether the configured game path is used
func (o *Options) UseManualGameBinPath() (bool, error) {
	return o.boolValue(KeyUseManualGameBinPath)
}

// GameBinPath returns the configured game binary path
func (o *Options) GameBinPath() (string, error) {
	return o.pathValue(KeyGameBinPath)
}

// UseManualOutputPath reports whether the configured output path is used
func (o *Options) UseManualOutputPath() (bool, error) {
	return o.boolValue(KeyUseManualOutputPath)
}

// OutputPath returns the configured output path
func (o *Options) OutputPath() (string, error) {
	return o.pathValue(KeyOutputPath)
}

// Minify returns the minify option and whether it is set
func (o *Options) Minify() (bool, bool, error) {
	return o.optionalBool(KeyMinify)
}

// PromoteMDK returns the branding option and whether it is set
func (o *Options) PromoteMDK() (bool, bool, error) {
	return o.optionalBool(KeyPromoteMDK)
}

func (o *Options) boolValue(key string) (bool, error) {
	b, err := cast.ToBoolE(o.v.Get(key))
	if err != nil {
		return false, fmt.Errorf("option %s: %w", key, err)
	}
	return b, nil
}

func (o *Options) pathValue(key string) (string, error) {
	s, err := cast.ToStringE(o.v.Get(key))
	if err != nil {
		return "", fmt.Errorf("option %s: %w", key, err)
	}
	return expandPath(strings.TrimSpace(s)), nil
}

func (o *Options) optionalBool(key string) (bool, bool, error) {
	if !o.v.IsSet(key) {
		return false, false, nil
	}
	b, err := cast.ToBoolE(o.v.Get(key))
	if err != nil {
		return false, true, fmt.Errorf("option %s: %w", key, err)
	}
	return b, true, nil
}

// expandPath expands ~ to user home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if we can't get home dir
	}

	return filepath.Join(homeDir, path[2:])
}
