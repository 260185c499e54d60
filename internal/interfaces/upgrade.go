package interfaces

import "github.com/Masterminds/semver/v3"

// Project identifies a generated script project on disk
type Project struct {
	Name string
	Dir  string
}

// UpgradeOptions is the input to a script upgrade analysis
type UpgradeOptions struct {
	DefaultGameBinPath   string
	InstallPath          string
	Minify               bool
	TargetVersion        *semver.Version
	GameAssemblyNames    []string
	GameFiles            []string
	UtilityAssemblyNames []string
	UtilityFiles         []string
}

// UpgradeIssue is one value in a project that needs to change
type UpgradeIssue struct {
	Key    string
	Found  string
	Want   string
	Reason string
}

// UpgradeAnalysis is the result of analyzing a project
type UpgradeAnalysis struct {
	Project Project
	Options UpgradeOptions
	Issues  []UpgradeIssue
	IsValid bool
}

// Upgrader analyzes projects and upgrades them in place
type Upgrader interface {
	Analyze(project Project, opts UpgradeOptions) (*UpgradeAnalysis, error)
	Upgrade(analysis *UpgradeAnalysis) error
}
