// Package wizard resolves the configuration of a new ingame script project
// and drives the pre- and post-generation steps of a project wizard run.
package wizard

import (
	"github.com/Masterminds/semver/v3"
)

// Version is the MDK version written into new projects. Injected via ldflags.
var Version = "1.1.16"

// TargetVersion parses Version. A malformed Version yields 0.0.0 so that any
// project looks current rather than triggering upgrades.
func TargetVersion() *semver.Version {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return semver.MustParse("0.0.0")
	}
	return v
}

// GameAssemblyNames are the game assemblies a script project references.
var GameAssemblyNames = []string{
	"Sandbox.Common",
	"Sandbox.Game",
	"Sandbox.Graphics",
	"SpaceEngineers.Game",
	"SpaceEngineers.ObjectBuilders",
	"VRage",
	"VRage.Game",
	"VRage.Library",
	"VRage.Math",
	"VRage.Scripting",
}

// GameFiles are the files that must exist in the game's Bin64 folder.
var GameFiles = dllNames(GameAssemblyNames)

// UtilityAssemblyNames are the MDK assemblies a script project references.
var UtilityAssemblyNames = []string{"MDKUtilities"}

// UtilityFiles are the files shipped in the MDK install folder.
var UtilityFiles = dllNames(UtilityAssemblyNames)

func dllNames(names []string) []string {
	files := make([]string, len(names))
	for i, n := range names {
		files[i] = n + ".dll"
	}
	return files
}
