package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mdk-wizard/internal/config"
	"mdk-wizard/internal/host"
	"mdk-wizard/internal/interactive"
	"mdk-wizard/internal/interfaces"
	"mdk-wizard/internal/kvfile"
	"mdk-wizard/internal/log"
	"mdk-wizard/internal/orchestrator"
	"mdk-wizard/internal/template"
	"mdk-wizard/internal/upgrade"
	"mdk-wizard/internal/wizard"
	"mdk-wizard/pkg/models"
)

// Stdout and Stderr are where command output and prompts go. Tests replace them.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// NewProject runs the wizard and generates a project
func NewProject(request *models.WizardRequest) error {
	orch := newOrchestrator(request)

	result, err := orch.NewProject(request)
	if err != nil {
		return cancelledOrWrapped(err, "project generation failed")
	}

	fmt.Fprintf(Stdout, "Created %s (%d files)\n", contractPath(result.Dir), len(result.Files))
	return nil
}

// Resolve runs the wizard and outputs the replacement tokens
func Resolve(request *models.WizardRequest) error {
	orch := newOrchestrator(request)

	tokens, err := orch.ResolveTokens(request)
	if err != nil {
		return cancelledOrWrapped(err, "resolution failed")
	}

	if err := orch.OutputTokens(tokens, request.Target); err != nil {
		return fmt.Errorf("output failed: %w", err)
	}
	return nil
}

// Upgrade checks an existing project and upgrades it when needed
func Upgrade(request *models.WizardRequest) error {
	orch := newOrchestrator(request)

	analysis, err := orch.UpgradeProject(request)
	if err != nil {
		return cancelledOrWrapped(err, "upgrade failed")
	}

	dir := contractPath(analysis.Project.Dir)
	if analysis.IsValid {
		fmt.Fprintf(Stdout, "%s is up to date\n", dir)
		return nil
	}
	fmt.Fprintf(Stdout, "Upgraded %s:\n", dir)
	for _, issue := range analysis.Issues {
		fmt.Fprintf(Stdout, "  - %s: %s\n", issue.Key, issue.Reason)
	}
	return nil
}

// KVList prints every entry of a dictionary file in file order
func KVList(path string, ignoreCase bool) error {
	d, err := kvfile.Load(path, keyPolicy(ignoreCase))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for k, v := range d.All() {
		fmt.Fprintf(Stdout, "%s=%s\n", k, v)
	}
	return nil
}

// KVGet prints the value stored under key
func KVGet(path, key string, ignoreCase bool) error {
	d, err := kvfile.Load(path, keyPolicy(ignoreCase))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	value, ok := d.Get(key)
	if !ok {
		return fmt.Errorf("key %q not found in %s", key, path)
	}
	fmt.Fprintln(Stdout, value)
	return nil
}

// KVSet stores key=value, creating the file when it does not exist
func KVSet(path, key, value string, ignoreCase bool) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "=\r\n") {
		return orchestrator.NewValidationError("key", key, "must be non-blank and contain no '=' or line breaks")
	}
	if strings.ContainsAny(value, "\r\n") {
		return orchestrator.NewValidationError("value", value, "must not contain line breaks")
	}

	d, err := kvfile.Load(path, keyPolicy(ignoreCase))
	if errors.Is(err, os.ErrNotExist) {
		d = kvfile.New(keyPolicy(ignoreCase))
	} else if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	d.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	if err := kvfile.Save(path, d); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// newOrchestrator wires the components for one invocation
func newOrchestrator(request *models.WizardRequest) *orchestrator.Orchestrator {
	resolveInteractiveMode(request)
	logger := newLogger(request)

	manager := config.NewManager()
	manager.SetConfigPath(request.ConfigPath)
	for key, value := range request.Overrides {
		manager.SetFlag(key, value)
	}

	prompter, confirmer := dialogs(request)
	resolver := wizard.NewResolver(host.NewLocator(), prompter, confirmer, logger)
	session := wizard.NewSession(resolver, upgrade.New(logger))

	return orchestrator.New(manager, session, template.NewProcessor(logger), orchestrator.NewOutputHandler(), logger)
}

// dialogs selects terminal prompts or unattended answers
func dialogs(request *models.WizardRequest) (interfaces.RetryPrompter, interfaces.Confirmer) {
	if !request.Interactive {
		u := interactive.NewUnattended(Stderr)
		return u, u
	}
	p := interactive.NewPrompter(request.NumberSelect)
	return p, p
}

func newLogger(request *models.WizardRequest) *slog.Logger {
	level := slog.LevelWarn
	if request.Verbose {
		level = slog.LevelDebug
	}
	return log.NewLogger(log.LoggerConfig{
		Version: wizard.Version,
		Out:     Stderr,
		Level:   level,
		JSON:    request.LogJSON,
	})
}

// resolveInteractiveMode determines the final interactive mode. Prompts are
// only shown on a terminal unless explicitly forced.
func resolveInteractiveMode(request *models.WizardRequest) {
	if request.ForceInteractive {
		request.Interactive = true
		return
	}
	if request.Interactive {
		request.Interactive = interactive.IsTerminal(int(os.Stdin.Fd()))
	}
}

// cancelledOrWrapped keeps cancellation recognizable for the caller
func cancelledOrWrapped(err error, context string) error {
	if errors.Is(err, wizard.ErrCancelled) {
		return err
	}
	return fmt.Errorf("%s: %w", context, err)
}

func keyPolicy(ignoreCase bool) kvfile.KeyPolicy {
	if ignoreCase {
		return kvfile.IgnoreCase
	}
	return kvfile.Exact
}

// contractPath converts a full path back to use ~ for the home directory
func contractPath(path string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if we can't get home dir
	}

	homeDirWithSlash := homeDir + string(filepath.Separator)
	pathWithSlash := path + string(filepath.Separator)

	if strings.HasPrefix(pathWithSlash, homeDirWithSlash) {
		relativePath := path[len(homeDir):]
		if relativePath == "" {
			return "~"
		}
		return "~" + relativePath
	}

	return path
}
