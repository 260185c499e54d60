package wizard

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"mdk-wizard/internal/interfaces"
)

// Project items swapped depending on the branding choice.
const (
	thumbItem          = "thumb.png"
	thumbPromotionItem = "thumbwithpromotion.png"
)

// Session spans exactly one project-creation run. It carries the branding
// choice from RunStarted to ShouldAddProjectItem and the confirmed record to
// the upgrade check.
type Session struct {
	resolver   *Resolver
	upgrader   interfaces.Upgrader
	logger     *slog.Logger
	promoteMDK bool
	confirmed  *Record
}

// NewSession starts a run. Branding promotion starts enabled.
func NewSession(resolver *Resolver, upgrader interfaces.Upgrader) *Session {
	return &Session{
		resolver:   resolver,
		upgrader:   upgrader,
		logger:     resolver.logger,
		promoteMDK: true,
	}
}

// PromoteMDK reports the current branding choice.
func (s *Session) PromoteMDK() bool {
	return s.promoteMDK
}

// RunStarted resolves and confirms the configuration before generation.
// It fails closed: any cancellation or error aborts project creation.
func (s *Session) RunStarted(source interfaces.SettingsSource, installLocation string) (*Record, error) {
	rec, err := s.resolver.Resolve(source, installLocation, s.promoteMDK)
	if err != nil {
		return nil, err
	}
	s.promoteMDK = rec.PromoteBranding()
	s.confirmed = rec
	return rec, nil
}

// ShouldAddProjectItem keeps exactly one of the two thumbnails.
func (s *Session) ShouldAddProjectItem(filePath string) bool {
	switch strings.ToLower(filepath.Base(filePath)) {
	case thumbItem:
		return !s.promoteMDK
	case thumbPromotionItem:
		return s.promoteMDK
	}
	return true
}

// ProjectFinishedGenerating checks a freshly generated project for needed
// upgrades. Failures are logged and discarded: the project already exists
// and a failed check must not affect it.
func (s *Session) ProjectFinishedGenerating(source interfaces.SettingsSource, installLocation string, project interfaces.Project) {
	if _, err := s.UpgradeProject(source, installLocation, project); err != nil {
		if isCancelled(err) {
			s.logger.Debug("upgrade check cancelled", "project", project.Dir)
			return
		}
		s.logger.Warn("upgrade check failed", "project", project.Dir, "error", err)
	}
}

// UpgradeProject analyzes project and upgrades it when the analysis is not
// valid. Errors are returned to the caller.
func (s *Session) UpgradeProject(source interfaces.SettingsSource, installLocation string, project interfaces.Project) (*interfaces.UpgradeAnalysis, error) {
	if s.upgrader == nil {
		return nil, fmt.Errorf("no upgrader configured")
	}

	settings, err := s.resolver.OpenSettings(source)
	if err != nil {
		return nil, err
	}
	binPath, err := s.resolver.FinalBinPath(source)
	if err != nil {
		return nil, err
	}
	installPath, err := s.resolver.FinalInstallPath(installLocation)
	if err != nil {
		return nil, err
	}

	// A value confirmed in this run wins over the stored setting.
	minify := s.resolver.FinalMinify(settings)
	if s.confirmed != nil {
		minify = s.confirmed.Minify()
	}

	analysis, err := s.upgrader.Analyze(project, UpgradeOptions(binPath, installPath, minify))
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", project.Dir, err)
	}
	if analysis.IsValid {
		return analysis, nil
	}

	s.logger.Info("upgrading project", "project", project.Dir, "issues", len(analysis.Issues))
	if err := s.upgrader.Upgrade(analysis); err != nil {
		return analysis, fmt.Errorf("upgrade %s: %w", project.Dir, err)
	}
	return analysis, nil
}

// UpgradeOptions builds the analysis input for the current MDK version.
func UpgradeOptions(binPath, installPath string, minify bool) interfaces.UpgradeOptions {
	return interfaces.UpgradeOptions{
		DefaultGameBinPath:   binPath,
		InstallPath:          installPath,
		Minify:               minify,
		TargetVersion:        TargetVersion(),
		GameAssemblyNames:    GameAssemblyNames,
		GameFiles:            GameFiles,
		UtilityAssemblyNames: UtilityAssemblyNames,
		UtilityFiles:         UtilityFiles,
	}
}
