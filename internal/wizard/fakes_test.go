package wizard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mdk-wizard/internal/interfaces"
)

type fakeSettings struct {
	useManualBin bool
	binPath      string
	useManualOut bool
	outputPath   string
	minify       *bool
	promote      *bool
	readErr      error
	flagErr      error
}

func (f *fakeSettings) UseManualGameBinPath() (bool, error) { return f.useManualBin, f.readErr }
func (f *fakeSettings) GameBinPath() (string, error)        { return f.binPath, f.readErr }
func (f *fakeSettings) UseManualOutputPath() (bool, error)  { return f.useManualOut, f.readErr }
func (f *fakeSettings) OutputPath() (string, error)         { return f.outputPath, f.readErr }

func (f *fakeSettings) Minify() (bool, bool, error) {
	if f.flagErr != nil {
		return false, true, f.flagErr
	}
	if f.minify == nil {
		return false, false, nil
	}
	return *f.minify, true, nil
}

func (f *fakeSettings) PromoteMDK() (bool, bool, error) {
	if f.flagErr != nil {
		return false, true, f.flagErr
	}
	if f.promote == nil {
		return false, false, nil
	}
	return *f.promote, true, nil
}

type fakeSource struct {
	settings *fakeSettings
	failures int
	opens    int
}

func (f *fakeSource) Open() (interfaces.Settings, error) {
	f.opens++
	if f.opens <= f.failures {
		return nil, errors.New("settings store unavailable")
	}
	return f.settings, nil
}

type fakeLocator struct {
	bin       string
	binErr    error
	data      string
	dataCalls int
}

func (f *fakeLocator) InstallPath(component string) (string, error) {
	if f.binErr != nil {
		return "", f.binErr
	}
	return f.bin, nil
}

func (f *fakeLocator) DataPath(segments ...string) (string, error) {
	f.dataCalls++
	return f.data, nil
}

// scriptedPrompter answers with choices in order, then cancels.
type scriptedPrompter struct {
	choices  []interfaces.Choice
	problems []interfaces.Problem
	onPrompt func(n int)
}

func (p *scriptedPrompter) PromptRetry(problem interfaces.Problem) interfaces.Choice {
	p.problems = append(p.problems, problem)
	n := len(p.problems)
	if p.onPrompt != nil {
		p.onPrompt(n)
	}
	if n <= len(p.choices) {
		return p.choices[n-1]
	}
	return interfaces.ChoiceCancel
}

type fakeConfirmer struct {
	calls   int
	seen    []interfaces.DialogModel
	edit    func(call int, m *interfaces.DialogModel)
	decline bool
	err     error
}

func (c *fakeConfirmer) Confirm(m *interfaces.DialogModel) (bool, error) {
	c.calls++
	c.seen = append(c.seen, *m)
	if c.err != nil {
		return false, c.err
	}
	if c.decline {
		return false, nil
	}
	if c.edit != nil {
		c.edit(c.calls, m)
	}
	return true, nil
}

type fakeUpgrader struct {
	analysis   *interfaces.UpgradeAnalysis
	analyzeErr error
	upgradeErr error
	analyzed   []interfaces.UpgradeOptions
	upgraded   int
}

func (u *fakeUpgrader) Analyze(project interfaces.Project, opts interfaces.UpgradeOptions) (*interfaces.UpgradeAnalysis, error) {
	u.analyzed = append(u.analyzed, opts)
	if u.analyzeErr != nil {
		return nil, u.analyzeErr
	}
	return u.analysis, nil
}

func (u *fakeUpgrader) Upgrade(analysis *interfaces.UpgradeAnalysis) error {
	u.upgraded++
	return u.upgradeErr
}

func boolPtr(b bool) *bool { return &b }

// fixture lays out a game, data and install directory below a temp dir.
type fixture struct {
	root    string
	bin     string
	data    string
	install string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		root:    root,
		bin:     filepath.Join(root, "games", "se", "Bin64"),
		data:    filepath.Join(root, "home", "user", "AppData", "IngameScripts", "local"),
		install: filepath.Join(root, "mdk"),
	}
	for _, dir := range []string{f.bin, f.install} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return f
}
