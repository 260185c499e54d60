package orchestrator

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"mdk-wizard/internal/interfaces"
	"mdk-wizard/internal/log"
	"mdk-wizard/internal/template"
	"mdk-wizard/internal/wizard"
	"mdk-wizard/pkg/models"
)

// SettingsStore is the options store with a known location
type SettingsStore interface {
	interfaces.SettingsSource
	Path() (string, error)
}

// Orchestrator coordinates the wizard session, template materialization and output
type Orchestrator struct {
	settings          SettingsStore
	session           *wizard.Session
	templateProcessor interfaces.TemplateProcessor
	outputHandler     interfaces.OutputHandler
	logger            *slog.Logger

	executable func() (string, error)
}

// New creates a new orchestrator with all required components
func New(settings SettingsStore, session *wizard.Session, processor interfaces.TemplateProcessor, output interfaces.OutputHandler, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		settings:          settings,
		session:           session,
		templateProcessor: processor,
		outputHandler:     output,
		logger:            log.OrNop(logger),
		executable:        os.Executable,
	}
}

// ProjectResult describes a generated project
type ProjectResult struct {
	Dir    string
	Files  []string
	Record *wizard.Record
}

// NewProject runs the wizard and generates a project from the template.
// A cancelled wizard returns wizard.ErrCancelled and writes nothing.
func (o *Orchestrator) NewProject(request *models.WizardRequest) (*ProjectResult, error) {
	if err := o.validateNewProject(request); err != nil {
		return nil, RecoverFromError(err)
	}
	if err := o.preflight(request); err != nil {
		return nil, RecoverFromError(err)
	}

	installLocation, err := o.installLocation(request.InstallLocation)
	if err != nil {
		return nil, RecoverFromError(err)
	}

	rec, err := o.session.RunStarted(o.settings, installLocation)
	if err != nil {
		return nil, RecoverFromError(err)
	}

	dest := request.DestDir
	if dest == "" {
		dest = request.ProjectName
	}
	if dest, err = filepath.Abs(dest); err != nil {
		return nil, RecoverFromError(err)
	}

	tokens := wizard.ReplacementTokens(rec, wizard.TargetVersion())
	maps.Copy(tokens, template.ProjectTokens(request.ProjectName))

	files, err := o.templateProcessor.Materialize(interfaces.MaterializeRequest{
		TemplateDir: request.TemplateDir,
		DestDir:     dest,
		Tokens:      tokens,
		Include:     o.session.ShouldAddProjectItem,
	})
	if err != nil {
		return nil, RecoverFromError(NewTemplateError(request.TemplateDir, err))
	}

	o.session.ProjectFinishedGenerating(o.settings, installLocation, interfaces.Project{
		Name: request.ProjectName,
		Dir:  dest,
	})

	return &ProjectResult{Dir: dest, Files: files, Record: rec}, nil
}

// ResolveTokens runs the wizard and returns the replacement tokens without
// generating anything.
func (o *Orchestrator) ResolveTokens(request *models.WizardRequest) (map[string]string, error) {
	if err := o.validateTarget(request.Target); err != nil {
		return nil, RecoverFromError(err)
	}
	if err := o.preflight(request); err != nil {
		return nil, RecoverFromError(err)
	}

	installLocation, err := o.installLocation(request.InstallLocation)
	if err != nil {
		return nil, RecoverFromError(err)
	}

	rec, err := o.session.RunStarted(o.settings, installLocation)
	if err != nil {
		return nil, RecoverFromError(err)
	}
	return wizard.ReplacementTokens(rec, wizard.TargetVersion()), nil
}

// UpgradeProject checks an existing project and upgrades it when needed.
// Unlike the check after generation, failures are reported.
func (o *Orchestrator) UpgradeProject(request *models.WizardRequest) (*interfaces.UpgradeAnalysis, error) {
	dir := strings.TrimSpace(request.ProjectDir)
	if dir == "" {
		return nil, RecoverFromError(NewValidationError("project_dir", dir, "required"))
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, RecoverFromError(err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, RecoverFromError(NewValidationError("project_dir", dir, "not a directory"))
	}
	if err := o.preflight(request); err != nil {
		return nil, RecoverFromError(err)
	}

	installLocation, err := o.installLocation(request.InstallLocation)
	if err != nil {
		return nil, RecoverFromError(err)
	}

	analysis, err := o.session.UpgradeProject(o.settings, installLocation, interfaces.Project{
		Name: filepath.Base(dir),
		Dir:  dir,
	})
	if err != nil {
		if errors.Is(err, wizard.ErrCancelled) {
			return nil, err
		}
		return analysis, RecoverFromError(NewUpgradeError(dir, err))
	}
	return analysis, nil
}

// OutputTokens handles the final output of the resolved tokens
func (o *Orchestrator) OutputTokens(tokens map[string]string, target string) error {
	content := FormatTokens(tokens)
	if target == "" {
		target = "stdout"
	}

	switch {
	case target == "clipboard":
		if err := o.outputHandler.WriteToClipboard(content); err != nil {
			outputErr := NewOutputError(target, err)
			if IsRecoverableError(outputErr) {
				o.logger.Warn("clipboard unavailable, falling back to stdout", "error", err)
				return o.outputHandler.WriteToStdout(content)
			}
			return RecoverFromError(outputErr)
		}
		o.logger.Info("tokens copied to clipboard")

	case target == "stdout":
		if err := o.outputHandler.WriteToStdout(content); err != nil {
			return RecoverFromError(NewOutputError(target, err))
		}

	case strings.HasPrefix(target, "file:"):
		filePath := strings.TrimPrefix(target, "file:")
		if err := o.outputHandler.WriteToFile(content, filePath); err != nil {
			return RecoverFromError(NewOutputError(target, err))
		}
		o.logger.Info("tokens written", "path", filePath)

	default:
		return RecoverFromError(NewValidationError("target", target, "unsupported output target"))
	}

	return nil
}

// preflight fails fast on an unreadable options store when nobody can
// answer the retry prompt.
func (o *Orchestrator) preflight(request *models.WizardRequest) error {
	if request.ConfigPath != "" {
		if _, err := os.Stat(request.ConfigPath); os.IsNotExist(err) {
			return NewValidationError("config_path", request.ConfigPath, "file does not exist")
		}
	}
	if request.Interactive {
		return nil
	}
	if _, err := o.settings.Open(); err != nil {
		path, _ := o.settings.Path()
		return NewSettingsError(path, err)
	}
	return nil
}

// installLocation returns explicit, or the directory holding the running
// executable.
func (o *Orchestrator) installLocation(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	exe, err := o.executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// validateNewProject validates the new-project request
func (o *Orchestrator) validateNewProject(request *models.WizardRequest) error {
	if request == nil {
		return NewValidationError("request", nil, "request cannot be nil")
	}
	if strings.TrimSpace(request.ProjectName) == "" {
		return NewValidationError("project_name", request.ProjectName, "required")
	}
	if strings.ContainsAny(request.ProjectName, `/\`) {
		return NewValidationError("project_name", request.ProjectName, "must not contain path separators")
	}
	if strings.TrimSpace(request.TemplateDir) == "" {
		return NewValidationError("template", request.TemplateDir, "required")
	}
	return nil
}

// validateTarget validates the output target format
func (o *Orchestrator) validateTarget(target string) error {
	if target == "" || target == "clipboard" || target == "stdout" {
		return nil
	}
	if strings.HasPrefix(target, "file:") && strings.TrimPrefix(target, "file:") != "" {
		return nil
	}
	return NewValidationError("target", target, "must be 'clipboard', 'stdout', or 'file:/path'")
}
