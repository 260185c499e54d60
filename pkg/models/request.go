package models

// WizardRequest represents the state of one CLI invocation
type WizardRequest struct {
	ConfigPath      string
	InstallLocation string

	// new
	ProjectName string
	TemplateDir string
	DestDir     string

	// upgrade
	ProjectDir string

	// resolve
	Target string

	// Flag overrides for the options store, keyed by option name
	Overrides map[string]interface{}

	Interactive      bool
	ForceInteractive bool
	NumberSelect     bool
	Verbose          bool
	LogJSON          bool
}
