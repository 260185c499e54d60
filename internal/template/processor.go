package template

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"

	"mdk-wizard/internal/interfaces"
	"mdk-wizard/internal/log"
)

// Suffix marks template files rendered with text/template.
const Suffix = ".tmpl"

// Project tokens provided alongside the configuration tokens.
const (
	TokenProjectName     = "$projectname$"
	TokenSafeProjectName = "$safeprojectname$"
	TokenGUID            = "$guid1$"
)

// ErrDestinationNotEmpty is returned when the destination already has content.
var ErrDestinationNotEmpty = errors.New("destination directory is not empty")

// Processor implements the TemplateProcessor interface
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a new template processor
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: log.OrNop(logger)}
}

// Materialize copies the template directory to the destination, substituting
// tokens in names and text contents and rendering .tmpl files.
func (p *Processor) Materialize(req interfaces.MaterializeRequest) ([]string, error) {
	info, err := os.Stat(req.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template %s is not a directory", req.TemplateDir)
	}
	existed, err := checkDestination(req.DestDir)
	if err != nil {
		return nil, err
	}

	replacer := newReplacer(req.Tokens)
	data := TemplateData(req.Tokens)
	var written []string

	err = filepath.WalkDir(req.TemplateDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(req.TemplateDir, path)
		if err != nil {
			return err
		}
		if req.Include != nil && !req.Include(rel) {
			p.logger.Debug("skipping project item", "item", rel)
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", rel, err)
		}

		target := replacer.Replace(rel)
		if strings.HasSuffix(target, Suffix) {
			target = strings.TrimSuffix(target, Suffix)
			rendered, err := Render(rel, string(content), data)
			if err != nil {
				return err
			}
			content = []byte(rendered)
		} else if isText(content) {
			content = []byte(replacer.Replace(string(content)))
		}

		dest := filepath.Join(req.DestDir, target)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", target, err)
		}
		mode := os.FileMode(0644)
		if fi, err := d.Info(); err == nil {
			mode = fi.Mode().Perm()
		}
		if err := os.WriteFile(dest, content, mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		written = append(written, target)
		return nil
	})
	if err != nil {
		p.discard(req.DestDir, existed)
		return nil, err
	}

	p.logger.Info("project materialized", "dest", req.DestDir, "files", len(written))
	return written, nil
}

// checkDestination accepts a missing or empty directory and reports whether
// it already existed.
func checkDestination(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read destination directory: %w", err)
	}
	if len(entries) > 0 {
		return true, fmt.Errorf("%w: %s", ErrDestinationNotEmpty, dir)
	}
	return true, nil
}

// discard removes a partially written project so the next run starts from an
// empty destination. A directory that existed before is kept, emptied.
func (p *Processor) discard(dir string, existed bool) {
	if !existed {
		if err := os.RemoveAll(dir); err != nil {
			p.logger.Warn("failed to remove partial project", "dest", dir, "error", err)
		}
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.logger.Warn("failed to clean partial project", "dest", dir, "error", err)
		return
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			p.logger.Warn("failed to clean partial project", "dest", dir, "error", err)
		}
	}
}

// ReplaceTokens substitutes every "$name$" token in s.
func ReplaceTokens(s string, tokens map[string]string) string {
	return newReplacer(tokens).Replace(s)
}

// newReplacer orders tokens longest first so overlapping names resolve the
// same way on every run.
func newReplacer(tokens map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(tokens))
	for k := range tokens {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, tokens[k])
	}
	return strings.NewReplacer(pairs...)
}

// TemplateData exposes tokens to .tmpl files under their bare names, so
// "$mdkversion$" is available as {{ .mdkversion }}.
func TemplateData(tokens map[string]string) map[string]string {
	data := make(map[string]string, len(tokens))
	for k, v := range tokens {
		data[strings.Trim(k, "$")] = v
	}
	return data
}

// Render executes a template with the provided data
func Render(name, text string, data map[string]string) (string, error) {
	tmpl, err := template.New(name).Funcs(funcMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// funcMap merges sprig with the project helpers.
func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	for name, fn := range template.FuncMap{
		"safeName": SafeName,
		"csString": csStringFunc,
		"dedent":   dedentFunc,
	} {
		funcs[name] = fn
	}
	return funcs
}

// ProjectTokens returns the per-project tokens for name. Each call draws a
// new project GUID.
func ProjectTokens(name string) map[string]string {
	return map[string]string{
		TokenProjectName:     name,
		TokenSafeProjectName: SafeName(name),
		TokenGUID:            uuid.NewString(),
	}
}

// SafeName turns name into a valid C# identifier.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	safe := b.String()
	if safe == "" {
		return "Project"
	}
	if r, _ := utf8.DecodeRuneInString(safe); unicode.IsDigit(r) {
		safe = "_" + safe
	}
	return safe
}

// csStringFunc quotes s as a C# verbatim string literal.
func csStringFunc(s string) string {
	return `@"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// isText reports whether content looks like text that tokens may appear in.
func isText(content []byte) bool {
	return utf8.Valid(content) && bytes.IndexByte(content, 0) < 0
}

// dedentFunc removes common leading whitespace from all lines
func dedentFunc(text string) string {
	lines := strings.Split(text, "\n")

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return text
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = line[minIndent:]
	}
	return strings.Join(lines, "\n")
}

var _ interfaces.TemplateProcessor = (*Processor)(nil)
