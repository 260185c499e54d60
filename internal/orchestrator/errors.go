package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mdk-wizard/internal/wizard"
)

// Error types for different categories of failures
var (
	ErrSettingsUnavailable = errors.New("settings error")
	ErrTemplateInvalid     = errors.New("template error")
	ErrOutputFailed        = errors.New("output error")
	ErrUpgradeFailed       = errors.New("upgrade error")
	ErrValidationFailed    = errors.New("validation error")
)

// WizardError represents a structured error with actionable guidance
type WizardError struct {
	Type     error
	Message  string
	Guidance string
	Cause    error
	Path     string // file the error is about, if any
}

func (e *WizardError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s: %s\n\nSuggestion: %s", e.Type, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *WizardError) Unwrap() error {
	return e.Cause
}

// Error constructors with actionable guidance

func NewSettingsError(path string, cause error) *WizardError {
	guidance := "Check the options file syntax. " +
		"Use 'mdkwizard --config /path/to/options.toml' to specify a different options file."

	if cause != nil && strings.Contains(cause.Error(), "permission") {
		guidance = fmt.Sprintf("Check file permissions for '%s'. "+
			"Ensure you have read access to the options file and its directory.", path)
	}

	return &WizardError{
		Type:     ErrSettingsUnavailable,
		Message:  fmt.Sprintf("failed to open options '%s'", path),
		Guidance: guidance,
		Cause:    cause,
		Path:     path,
	}
}

func NewTemplateError(templateDir string, cause error) *WizardError {
	message := fmt.Sprintf("failed to materialize template '%s'", templateDir)
	guidance := "Ensure the template directory exists and contains the project files. " +
		"Files ending in .tmpl must use valid Go template syntax with {{ }} delimiters."

	switch {
	case errors.Is(cause, os.ErrNotExist):
		guidance = fmt.Sprintf("Template directory '%s' does not exist. Check the --template path.", templateDir)
	case strings.Contains(cause.Error(), "not empty"):
		guidance = "The destination directory already has files. Choose another --dest " +
			"or project name."
	case strings.Contains(cause.Error(), "parse") || strings.Contains(cause.Error(), "execute"):
		guidance = "A .tmpl file has template errors. Check for proper {{ }} delimiters " +
			"and that every referenced token such as {{ .mdkversion }} exists."
	}

	return &WizardError{
		Type:     ErrTemplateInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewOutputError(target string, cause error) *WizardError {
	message := fmt.Sprintf("failed to output to target '%s'", target)
	guidance := "Check that the output target is valid and accessible."

	if target == "clipboard" {
		guidance = "Clipboard access failed. Ensure you're running in a graphical environment " +
			"or try using --target stdout instead."
	} else if strings.HasPrefix(target, "file:") {
		filePath := strings.TrimPrefix(target, "file:")
		guidance = fmt.Sprintf("Failed to write to file '%s'. Check that the directory exists "+
			"and you have write permissions.", filePath)
	}

	return &WizardError{
		Type:     ErrOutputFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewUpgradeError(projectDir string, cause error) *WizardError {
	message := fmt.Sprintf("failed to upgrade project '%s'", projectDir)
	guidance := fmt.Sprintf("Ensure '%s' is a script project and that %s is writable.",
		projectDir, filepath.Join("mdk", "mdk.options"))

	return &WizardError{
		Type:     ErrUpgradeFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewValidationError(field string, value interface{}, reason string) *WizardError {
	message := fmt.Sprintf("validation failed for %s: %v (%s)", field, value, reason)
	guidance := "Check the input value and ensure it meets the required format."

	switch field {
	case "project_name":
		guidance = "A project name is required. Example: mdkwizard new MyScript --template ./templates/IngameScript"
	case "template":
		guidance = "Pass the project template directory with --template."
	case "target":
		guidance = "Target must be 'clipboard', 'stdout', or 'file:/path/to/file'. " +
			"Example: --target file:/tmp/tokens.txt"
	case "config_path":
		guidance = "Options file path must be valid and accessible. " +
			"Ensure the file exists and you have read permissions."
	case "project_dir":
		guidance = "Pass the directory of an existing script project."
	}

	return &WizardError{
		Type:     ErrValidationFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    nil,
	}
}

// Recovery strategies

// RecoverFromError attempts to recover from common errors with fallback
// strategies. Cancellation passes through untouched.
func RecoverFromError(err error) error {
	if err == nil || errors.Is(err, wizard.ErrCancelled) {
		return err
	}

	var wizardErr *WizardError
	if !errors.As(err, &wizardErr) {
		// Wrap unknown errors
		return &WizardError{
			Type:     errors.New("unknown error"),
			Message:  err.Error(),
			Guidance: "An unexpected error occurred. Please check your inputs and try again.",
			Cause:    err,
		}
	}

	switch wizardErr.Type {
	case ErrSettingsUnavailable:
		return recoverFromSettingsError(wizardErr)
	case ErrOutputFailed:
		return recoverFromOutputError(wizardErr)
	default:
		return wizardErr
	}
}

// recoverFromSettingsError creates the directory of the options file that
// failed to open, never a default location.
func recoverFromSettingsError(err *WizardError) error {
	if err.Path == "" {
		return err // Can't recover
	}

	configDir := filepath.Dir(err.Path)
	if _, statErr := os.Stat(configDir); os.IsNotExist(statErr) {
		if mkdirErr := os.MkdirAll(configDir, 0755); mkdirErr != nil {
			err.Guidance += fmt.Sprintf("\n\nAttempted to create options directory '%s' but failed: %v",
				configDir, mkdirErr)
			return err
		}

		err.Guidance += fmt.Sprintf("\n\nCreated options directory '%s'. You can now create an options.toml file there.",
			configDir)
	}

	return err
}

func recoverFromOutputError(err *WizardError) error {
	if strings.Contains(err.Message, "clipboard") {
		err.Guidance += "\n\nTry using --target stdout as a fallback."
	}
	return err
}

// IsRecoverableError checks if an error can be recovered from
func IsRecoverableError(err error) bool {
	var wizardErr *WizardError
	if !errors.As(err, &wizardErr) {
		return false
	}

	switch wizardErr.Type {
	case ErrOutputFailed:
		return strings.Contains(wizardErr.Message, "clipboard") // Can fallback to stdout
	default:
		return false
	}
}
