package wizard

import "github.com/Masterminds/semver/v3"

// Replacement tokens injected into project templates.
const (
	TokenUseManualGameBinPath = "$mdkusemanualgamebinpath$"
	TokenGameBinPath          = "$mdkgamebinpath$"
	TokenOutputPath           = "$mdkoutputpath$"
	TokenInstallPath          = "$mdkinstallpath$"
	TokenMinify               = "$mdkminify$"
	TokenVersion              = "$mdkversion$"
)

// ReplacementTokens renders rec as template tokens. Booleans become "yes" or "no".
func ReplacementTokens(rec *Record, version *semver.Version) map[string]string {
	return map[string]string{
		TokenUseManualGameBinPath: yesNo(rec.UseManualBinPath()),
		TokenGameBinPath:          rec.BinPath(),
		TokenOutputPath:           rec.OutputPath(),
		TokenInstallPath:          rec.InstallPath(),
		TokenMinify:               yesNo(rec.Minify()),
		TokenVersion:              version.String(),
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
