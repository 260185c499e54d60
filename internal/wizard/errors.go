package wizard

import "errors"

// ErrCancelled reports that the user abandoned the wizard. It is not a
// failure: callers abort project creation without reporting an error.
var ErrCancelled = errors.New("wizard cancelled")

var errBlankPath = errors.New("path is blank")

// Step names used in prompts and log entries.
const (
	StepSettings    = "settings"
	StepBinPath     = "game bin path"
	StepOutputPath  = "output path"
	StepInstallPath = "install path"
	StepConfirm     = "confirmation"
)
