package wizard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mdk-wizard/internal/interfaces"
)

// retry runs attempt until it succeeds or the user cancels at the prompt.
// Retries are bounded only by the user.
func retry[T any](r *Resolver, problem interfaces.Problem, attempt func() (T, error)) (T, error) {
	for {
		value, err := attempt()
		if err == nil {
			return value, nil
		}

		problem.Err = err
		choice := r.prompter.PromptRetry(problem)
		r.logger.Info("resolution step failed", "step", problem.Step, "error", err, "choice", choice.String())
		if choice != interfaces.ChoiceRetry {
			var zero T
			return zero, ErrCancelled
		}
	}
}

// OpenSettings opens the settings store, prompting on failure.
func (r *Resolver) OpenSettings(source interfaces.SettingsSource) (interfaces.Settings, error) {
	return retry(r, settingsNotFound, source.Open)
}

// FinalBinPath resolves the game binary directory. The configured path is
// used only when the manual flag is set and the path is not blank; otherwise
// the game's Bin64 folder is used. The directory must exist. Every attempt
// reopens source so a retry sees settings fixed while the prompt was open.
func (r *Resolver) FinalBinPath(source interfaces.SettingsSource) (string, error) {
	return retry(r, binPathNotFound, func() (string, error) {
		settings, err := source.Open()
		if err != nil {
			return "", err
		}
		useManual, err := settings.UseManualGameBinPath()
		if err != nil {
			return "", err
		}
		binPath, err := settings.GameBinPath()
		if err != nil {
			return "", err
		}
		binPath = strings.TrimSpace(binPath)
		if !useManual || binPath == "" {
			if binPath, err = r.locator.InstallPath("Bin64"); err != nil {
				return "", err
			}
		}
		return requireDir(binPath)
	})
}

// FinalOutputPath resolves the script output directory, creating it when it
// does not exist. Like FinalBinPath it reads source afresh on every attempt.
func (r *Resolver) FinalOutputPath(source interfaces.SettingsSource) (string, error) {
	return retry(r, cannotCreateOutputPath, func() (string, error) {
		settings, err := source.Open()
		if err != nil {
			return "", err
		}
		useManual, err := settings.UseManualOutputPath()
		if err != nil {
			return "", err
		}
		outputPath, err := settings.OutputPath()
		if err != nil {
			return "", err
		}
		outputPath = strings.TrimSpace(outputPath)
		if !useManual || outputPath == "" {
			if outputPath, err = r.locator.DataPath("IngameScripts", "local"); err != nil {
				return "", err
			}
		}
		return ensureDir(outputPath)
	})
}

// FinalInstallPath validates the tool's own install directory. The value is
// fixed, so a retry only helps after the installation is repaired.
func (r *Resolver) FinalInstallPath(installLocation string) (string, error) {
	return retry(r, cannotFindInstallPath, func() (string, error) {
		return requireDir(strings.TrimSpace(installLocation))
	})
}

// FinalMinify reads the minify flag. Absent or unreadable means false.
func (r *Resolver) FinalMinify(settings interfaces.Settings) bool {
	minify, ok, err := settings.Minify()
	if err != nil {
		r.logger.Warn("ignoring unreadable minify option", "error", err)
		return false
	}
	return ok && minify
}

// FinalPromoteMDK reads the branding flag. Absent or unreadable keeps
// previous, unlike FinalMinify which falls back to false.
func (r *Resolver) FinalPromoteMDK(settings interfaces.Settings, previous bool) bool {
	promote, ok, err := settings.PromoteMDK()
	if err != nil {
		r.logger.Warn("ignoring unreadable promote option", "error", err)
		return previous
	}
	if !ok {
		return previous
	}
	return promote
}

// requireDir returns the absolute form of path if it is an existing directory.
func requireDir(path string) (string, error) {
	if path == "" {
		return "", errBlankPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// ensureDir returns the absolute form of path, creating the directory if needed.
func ensureDir(path string) (string, error) {
	if path == "" {
		return "", errBlankPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", abs, err)
	}
	return abs, nil
}

// isCancelled reports whether err is a user cancellation.
func isCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
