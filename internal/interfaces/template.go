package interfaces

// MaterializeRequest describes one project generation from a template directory
type MaterializeRequest struct {
	TemplateDir string
	DestDir     string

	// Tokens maps "$name$" markers to their replacement text
	Tokens map[string]string

	// Include decides whether a template file is copied. Nil includes everything.
	Include func(relPath string) bool
}

// TemplateProcessor renders project templates
type TemplateProcessor interface {
	// Materialize writes the project and returns the written paths relative to DestDir
	Materialize(req MaterializeRequest) ([]string, error)
}
