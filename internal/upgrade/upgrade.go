// Package upgrade checks generated script projects against the running MDK
// installation and rewrites their options when they fall behind.
package upgrade

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cast"

	"mdk-wizard/internal/interfaces"
	"mdk-wizard/internal/kvfile"
	"mdk-wizard/internal/log"
)

// Keys stored in a project's options file.
const (
	KeyVersion     = "version"
	KeyGameBinPath = "gamebinpath"
	KeyInstallPath = "installpath"
	KeyMinify      = "minify"
	KeyReferences  = "references"
)

// OptionsPath returns the location of the options file inside projectDir.
func OptionsPath(projectDir string) string {
	return filepath.Join(projectDir, "mdk", "mdk.options")
}

// ScriptUpgrades implements interfaces.Upgrader for ingame script projects.
type ScriptUpgrades struct {
	logger *slog.Logger
}

// New creates a ScriptUpgrades. A nil logger discards log output.
func New(logger *slog.Logger) *ScriptUpgrades {
	return &ScriptUpgrades{logger: log.OrNop(logger)}
}

// Analyze compares the project's options against opts. A project without an
// options file is reported invalid with every key missing.
func (u *ScriptUpgrades) Analyze(project interfaces.Project, opts interfaces.UpgradeOptions) (*interfaces.UpgradeAnalysis, error) {
	if opts.TargetVersion == nil {
		return nil, errors.New("target version is required")
	}

	options, err := kvfile.Load(OptionsPath(project.Dir), kvfile.IgnoreCase)
	if errors.Is(err, fs.ErrNotExist) {
		options = kvfile.New(kvfile.IgnoreCase)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read project options: %w", err)
	}

	var issues []interfaces.UpgradeIssue
	for _, check := range []func(*kvfile.Dictionary, interfaces.UpgradeOptions) *interfaces.UpgradeIssue{
		checkVersion,
		checkGameBinPath,
		checkInstallPath,
		checkMinify,
		checkReferences,
	} {
		if issue := check(options, opts); issue != nil {
			issues = append(issues, *issue)
		}
	}

	u.reportMissingFiles(opts)

	analysis := &interfaces.UpgradeAnalysis{
		Project: project,
		Options: opts,
		Issues:  issues,
		IsValid: len(issues) == 0,
	}
	u.logger.Debug("analyzed project", "project", project.Dir, "valid", analysis.IsValid, "issues", len(issues))
	return analysis, nil
}

// Upgrade writes the wanted value of every issue into the options file. Key
// order, key spelling and unknown keys are preserved.
func (u *ScriptUpgrades) Upgrade(analysis *interfaces.UpgradeAnalysis) error {
	if analysis == nil {
		return errors.New("analysis is required")
	}
	if analysis.IsValid {
		return nil
	}

	path := OptionsPath(analysis.Project.Dir)
	options, err := kvfile.Load(path, kvfile.IgnoreCase)
	if errors.Is(err, fs.ErrNotExist) {
		options = kvfile.New(kvfile.IgnoreCase)
	} else if err != nil {
		return fmt.Errorf("failed to read project options: %w", err)
	}

	for _, issue := range analysis.Issues {
		u.logger.Info("upgrading project option", "key", issue.Key, "from", issue.Found, "to", issue.Want)
		options.Set(issue.Key, issue.Want)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create options directory: %w", err)
	}
	if err := kvfile.Save(path, options); err != nil {
		return fmt.Errorf("failed to write project options: %w", err)
	}
	return nil
}

// reportMissingFiles logs assemblies that cannot be found on disk. Missing
// files are a broken installation, which rewriting the project cannot fix.
func (u *ScriptUpgrades) reportMissingFiles(opts interfaces.UpgradeOptions) {
	for dir, files := range map[string][]string{
		opts.DefaultGameBinPath: opts.GameFiles,
		opts.InstallPath:        opts.UtilityFiles,
	} {
		if dir == "" {
			continue
		}
		for _, name := range files {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				u.logger.Warn("referenced assembly not found", "dir", dir, "file", name)
			}
		}
	}
}

func checkVersion(options *kvfile.Dictionary, opts interfaces.UpgradeOptions) *interfaces.UpgradeIssue {
	want := opts.TargetVersion.String()
	found, ok := options.Get(KeyVersion)
	if !ok {
		return missing(KeyVersion, want)
	}
	v, err := semver.NewVersion(strings.TrimSpace(found))
	if err != nil {
		return &interfaces.UpgradeIssue{Key: KeyVersion, Found: found, Want: want, Reason: "unreadable version"}
	}
	if v.LessThan(opts.TargetVersion) {
		return &interfaces.UpgradeIssue{Key: KeyVersion, Found: found, Want: want, Reason: "older than " + want}
	}
	return nil
}

func checkGameBinPath(options *kvfile.Dictionary, opts interfaces.UpgradeOptions) *interfaces.UpgradeIssue {
	want := opts.DefaultGameBinPath
	found, ok := options.Get(KeyGameBinPath)
	if !ok {
		return missing(KeyGameBinPath, want)
	}
	if strings.TrimSpace(found) == "" {
		return &interfaces.UpgradeIssue{Key: KeyGameBinPath, Found: found, Want: want, Reason: "blank game bin path"}
	}
	if info, err := os.Stat(found); err != nil || !info.IsDir() {
		return &interfaces.UpgradeIssue{Key: KeyGameBinPath, Found: found, Want: want, Reason: "game bin path does not exist"}
	}
	return nil
}

func checkInstallPath(options *kvfile.Dictionary, opts interfaces.UpgradeOptions) *interfaces.UpgradeIssue {
	want := opts.InstallPath
	found, ok := options.Get(KeyInstallPath)
	if !ok {
		return missing(KeyInstallPath, want)
	}
	if !strings.EqualFold(filepath.Clean(strings.TrimSpace(found)), filepath.Clean(want)) {
		return &interfaces.UpgradeIssue{Key: KeyInstallPath, Found: found, Want: want, Reason: "install path moved"}
	}
	return nil
}

// checkMinify only fills in a missing or unreadable flag; a readable value is
// the project's own choice and stays.
func checkMinify(options *kvfile.Dictionary, opts interfaces.UpgradeOptions) *interfaces.UpgradeIssue {
	want := yesNo(opts.Minify)
	found, ok := options.Get(KeyMinify)
	if !ok {
		return missing(KeyMinify, want)
	}
	if _, err := parseYesNo(found); err != nil {
		return &interfaces.UpgradeIssue{Key: KeyMinify, Found: found, Want: want, Reason: "unreadable minify flag"}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func checkReferences(options *kvfile.Dictionary, opts interfaces.UpgradeOptions) *interfaces.UpgradeIssue {
	required := append(slices.Clone(opts.GameAssemblyNames), opts.UtilityAssemblyNames...)
	found, ok := options.Get(KeyReferences)
	if !ok {
		return missing(KeyReferences, strings.Join(required, ","))
	}

	refs := splitReferences(found)
	var absent []string
	for _, name := range required {
		if !slices.ContainsFunc(refs, func(r string) bool { return strings.EqualFold(r, name) }) {
			absent = append(absent, name)
		}
	}
	if len(absent) == 0 {
		return nil
	}
	return &interfaces.UpgradeIssue{
		Key:    KeyReferences,
		Found:  found,
		Want:   strings.Join(append(refs, absent...), ","),
		Reason: "missing references: " + strings.Join(absent, ", "),
	}
}

func missing(key, want string) *interfaces.UpgradeIssue {
	return &interfaces.UpgradeIssue{Key: key, Want: want, Reason: "missing " + key}
}

func splitReferences(value string) []string {
	var refs []string
	for _, r := range strings.Split(value, ",") {
		if r = strings.TrimSpace(r); r != "" {
			refs = append(refs, r)
		}
	}
	return refs
}

// parseYesNo accepts yes/no in addition to the boolean forms cast knows.
func parseYesNo(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return cast.ToBoolE(strings.TrimSpace(value))
}

var _ interfaces.Upgrader = (*ScriptUpgrades)(nil)
