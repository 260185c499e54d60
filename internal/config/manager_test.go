package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeOptions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test options file: %v", err)
	}
	return path
}

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager() returned nil")
	}
	if manager.flags == nil {
		t.Fatal("NewManager() created manager with nil flags")
	}
}

func TestManager_Open_MissingFileUsesDefaults(t *testing.T) {
	manager := NewManager()
	manager.SetConfigPath(filepath.Join(t.TempDir(), "absent.toml"))

	settings, err := manager.Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if manual, err := settings.UseManualGameBinPath(); err != nil || manual {
		t.Errorf("UseManualGameBinPath() = %v, %v; want false, nil", manual, err)
	}
	if path, err := settings.GameBinPath(); err != nil || path != "" {
		t.Errorf("GameBinPath() = %q, %v; want empty", path, err)
	}
	if _, ok, err := settings.Minify(); err != nil || ok {
		t.Errorf("Minify() ok = %v, err = %v; want absent", ok, err)
	}
	if _, ok, err := settings.PromoteMDK(); err != nil || ok {
		t.Errorf("PromoteMDK() ok = %v, err = %v; want absent", ok, err)
	}
}

func TestManager_Open_CustomFile(t *testing.T) {
	path := writeOptions(t, `
use_manual_game_bin_path = true
game_bin_path = "  /games/se/Bin64  "
use_manual_output_path = true
output_path = "/scripts/out"
minify = true
promote_mdk = false
`)

	manager := NewManager()
	manager.SetConfigPath(path)
	settings, err := manager.Open()
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", path, err)
	}

	if manual, _ := settings.UseManualGameBinPath(); !manual {
		t.Error("Expected UseManualGameBinPath to be true")
	}
	if bin, _ := settings.GameBinPath(); bin != "/games/se/Bin64" {
		t.Errorf("Expected trimmed GameBinPath, got %q", bin)
	}
	if out, _ := settings.OutputPath(); out != "/scripts/out" {
		t.Errorf("Expected OutputPath '/scripts/out', got %q", out)
	}
	if minify, ok, _ := settings.Minify(); !ok || !minify {
		t.Errorf("Minify() = %v, %v; want true, true", minify, ok)
	}
	if promote, ok, _ := settings.PromoteMDK(); !ok || promote {
		t.Errorf("PromoteMDK() = %v, %v; want false, true", promote, ok)
	}
}

func TestManager_Open_UnreadableFile(t *testing.T) {
	path := writeOptions(t, "this is = not [valid toml")

	manager := NewManager()
	manager.SetConfigPath(path)
	if _, err := manager.Open(); err == nil {
		t.Fatal("expected error for malformed options file")
	}
}

func TestManager_Open_RereadsFile(t *testing.T) {
	path := writeOptions(t, `game_bin_path = "/first"`)
	manager := NewManager()
	manager.SetConfigPath(path)

	first, err := manager.Open()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`game_bin_path = "/second"`), 0644); err != nil {
		t.Fatal(err)
	}
	second, err := manager.Open()
	if err != nil {
		t.Fatal(err)
	}

	a, _ := first.GameBinPath()
	b, _ := second.GameBinPath()
	if a != "/first" || b != "/second" {
		t.Errorf("GameBinPath() = %q then %q; want /first then /second", a, b)
	}
}

func TestManager_EnvironmentOverridesFile(t *testing.T) {
	path := writeOptions(t, `minify = false`)
	t.Setenv("MDK_MINIFY", "true")
	t.Setenv("MDK_OUTPUT_PATH", "/env/out")

	manager := NewManager()
	manager.SetConfigPath(path)
	settings, err := manager.Open()
	if err != nil {
		t.Fatal(err)
	}

	if minify, ok, _ := settings.Minify(); !ok || !minify {
		t.Errorf("Minify() = %v, %v; want env override true", minify, ok)
	}
	if out, _ := settings.OutputPath(); out != "/env/out" {
		t.Errorf("OutputPath() = %q; want /env/out", out)
	}
}

func TestManager_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("MDK_GAME_BIN_PATH", "/env/bin")

	manager := NewManager()
	manager.SetConfigPath(filepath.Join(t.TempDir(), "absent.toml"))
	manager.SetFlag(KeyGameBinPath, "/flag/bin")
	manager.SetFlag(KeyUseManualGameBinPath, true)

	settings, err := manager.Open()
	if err != nil {
		t.Fatal(err)
	}
	if bin, _ := settings.GameBinPath(); bin != "/flag/bin" {
		t.Errorf("GameBinPath() = %q; want /flag/bin", bin)
	}
	if manual, _ := settings.UseManualGameBinPath(); !manual {
		t.Error("UseManualGameBinPath() = false; want flag override true")
	}
}

func TestOptions_InvalidBoolean(t *testing.T) {
	path := writeOptions(t, `promote_mdk = "sometimes"`)
	manager := NewManager()
	manager.SetConfigPath(path)
	settings, err := manager.Open()
	if err != nil {
		t.Fatal(err)
	}

	_, ok, err := settings.PromoteMDK()
	if !ok {
		t.Error("PromoteMDK() should report the option as set")
	}
	if err == nil {
		t.Error("PromoteMDK() should fail for a non-boolean value")
	}
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "absolute path",
			path:     "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "relative path",
			path:     "relative/path",
			expected: "relative/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.path)
			if result != tt.expected {
				t.Errorf("expandPath(%s) = %s, expected %s", tt.path, result, tt.expected)
			}
		})
	}

	// Test tilde expansion separately since it depends on user home
	homeDir, err := os.UserHomeDir()
	if err == nil {
		result := expandPath("~/test/path")
		expected := filepath.Join(homeDir, "test/path")
		if result != expected {
			t.Errorf("expandPath(~/test/path) = %s, expected %s", result, expected)
		}
	}
}
