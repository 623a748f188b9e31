package gotalign

// Version information for gotalign.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gotalign.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "gotalign"

	// Description is a short description of the application.
	Description = "Go Translation Alignment - word-level alignment of translated text"

	// Version is the semantic version of the application.
	Version = "0.1.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/gotalign"

	// License is the software license.
	License = "MIT"
)

// Build information, set via ldflags.
var (
	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version with the short commit appended when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent by HTTP engines.
func UserAgent() string {
	return Name + "/" + Version
}
