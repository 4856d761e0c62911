package version

import "github.com/fatih/color"

// Version information for docl. These variables can be overridden at build
// time via -ldflags.
var (
	// Version is the semantic version of the analyser. Snapshots record it,
	// so a new version changes every digest.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionNameColor = color.New(color.FgYellow, color.Bold)
	versionMetaColor = color.New(color.FgBlue)
)

// String renders the version with its optional build metadata:
// "0.1.0-dev (abc123, 2024-01-15)".
func String() string {
	meta := ""
	switch {
	case GitCommit != "" && BuildDate != "":
		meta = GitCommit + ", " + BuildDate
	case GitCommit != "":
		meta = GitCommit
	case BuildDate != "":
		meta = BuildDate
	}
	if meta == "" {
		return Version
	}
	return Version + " (" + meta + ")"
}

// Colored is String with terminal colors, honouring color.NoColor.
func Colored() string {
	s := versionNameColor.Sprint(Version)
	if meta := String()[len(Version):]; meta != "" {
		s += versionMetaColor.Sprint(meta)
	}
	return s
}
