package wizard

import (
	"fmt"
	"log/slog"
	"strings"

	"mdk-wizard/internal/interfaces"
	"mdk-wizard/internal/log"
)

// Record is the finalized configuration of one wizard run. It is only built
// after every resolution step and the confirmation succeed.
type Record struct {
	binPath          string
	outputPath       string
	installPath      string
	minify           bool
	promoteBranding  bool
	useManualBinPath bool
}

func (r *Record) BinPath() string        { return r.binPath }
func (r *Record) OutputPath() string     { return r.outputPath }
func (r *Record) InstallPath() string    { return r.installPath }
func (r *Record) Minify() bool           { return r.minify }
func (r *Record) PromoteBranding() bool  { return r.promoteBranding }
func (r *Record) UseManualBinPath() bool { return r.useManualBinPath }

// Resolver runs the ordered resolution steps of a wizard run. It holds no
// state between calls.
type Resolver struct {
	locator   interfaces.GameLocator
	prompter  interfaces.RetryPrompter
	confirmer interfaces.Confirmer
	logger    *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards log output.
func NewResolver(locator interfaces.GameLocator, prompter interfaces.RetryPrompter, confirmer interfaces.Confirmer, logger *slog.Logger) *Resolver {
	return &Resolver{
		locator:   locator,
		prompter:  prompter,
		confirmer: confirmer,
		logger:    log.OrNop(logger),
	}
}

// Resolve opens the settings, resolves the bin, output and install paths and
// the minify and branding flags, then asks the user to confirm. promote is
// the branding value kept when the setting is absent. Any cancellation
// returns ErrCancelled and no record.
func (r *Resolver) Resolve(source interfaces.SettingsSource, installLocation string, promote bool) (*Record, error) {
	if _, err := r.OpenSettings(source); err != nil {
		return nil, err
	}

	binPath, err := r.FinalBinPath(source)
	if err != nil {
		return nil, err
	}

	outputPath, err := r.FinalOutputPath(source)
	if err != nil {
		return nil, err
	}

	installPath, err := r.FinalInstallPath(installLocation)
	if err != nil {
		return nil, err
	}

	// The flags come from the store as it is now, after any retries above.
	settings, err := r.OpenSettings(source)
	if err != nil {
		return nil, err
	}

	model := &interfaces.DialogModel{
		GameBinPath: binPath,
		OutputPath:  outputPath,
		Minify:      r.FinalMinify(settings),
		PromoteMDK:  r.FinalPromoteMDK(settings, promote),
	}
	r.logger.Debug("resolved defaults",
		"bin_path", binPath, "output_path", outputPath, "install_path", installPath,
		"minify", model.Minify, "promote", model.PromoteMDK)

	return r.confirm(model, binPath, installPath)
}

// confirm shows the dialog until the user declines or confirms usable paths.
func (r *Resolver) confirm(model *interfaces.DialogModel, defaultBinPath, installPath string) (*Record, error) {
	for {
		ok, err := r.confirmer.Confirm(model)
		if err != nil {
			return nil, fmt.Errorf("confirmation dialog failed: %w", err)
		}
		if !ok {
			r.logger.Info("settings declined")
			return nil, ErrCancelled
		}

		rec, err := finalizeRecord(model, defaultBinPath, installPath)
		if err == nil {
			return rec, nil
		}

		problem := confirmedPathInvalid
		problem.Err = err
		choice := r.prompter.PromptRetry(problem)
		r.logger.Info("confirmed settings rejected", "error", err, "choice", choice.String())
		if choice != interfaces.ChoiceRetry {
			return nil, ErrCancelled
		}
	}
}

// finalizeRecord validates the confirmed model and builds the record.
func finalizeRecord(model *interfaces.DialogModel, defaultBinPath, installPath string) (*Record, error) {
	binPath, err := requireDir(strings.TrimSpace(model.GameBinPath))
	if err != nil {
		return nil, fmt.Errorf("game bin path: %w", err)
	}
	outputPath, err := ensureDir(strings.TrimSpace(model.OutputPath))
	if err != nil {
		return nil, fmt.Errorf("output path: %w", err)
	}
	return &Record{
		binPath:          binPath,
		outputPath:       outputPath,
		installPath:      installPath,
		minify:           model.Minify,
		promoteBranding:  model.PromoteMDK,
		useManualBinPath: !strings.EqualFold(binPath, defaultBinPath),
	}, nil
}
