package orchestrator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"mdk-wizard/internal/interfaces"
	"mdk-wizard/internal/kvfile"
)

// OutputHandler implements the OutputHandler interface
type OutputHandler struct {
	stdout io.Writer
}

// NewOutputHandler creates a new output handler
func NewOutputHandler() interfaces.OutputHandler {
	return &OutputHandler{stdout: os.Stdout}
}

// WriteToClipboard copies content to the system clipboard
func (h *OutputHandler) WriteToClipboard(content string) error {
	return clipboard.WriteAll(content)
}

// WriteToStdout writes content to standard output
func (h *OutputHandler) WriteToStdout(content string) error {
	_, err := fmt.Fprintln(h.stdout, content)
	return err
}

// WriteToFile writes content to the specified file path, creating parent directories
func (h *OutputHandler) WriteToFile(content string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// FormatTokens renders tokens as sorted name=value lines in the dictionary
// file format, with the dollar signs stripped from the names.
func FormatTokens(tokens map[string]string) string {
	bare := make(map[string]string, len(tokens))
	for k, v := range tokens {
		bare[strings.Trim(k, "$")] = v
	}
	return kvfile.Format(kvfile.FromMap(bare, kvfile.Exact))
}
