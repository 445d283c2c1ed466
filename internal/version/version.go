// Package version holds build metadata shared by statusdash and statusctl.
package version

import "fmt"

// Version is the release version, bumped by Release Please.
var Version = "0.0.0"

// GitCommit and BuildDate are set at build time via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the build metadata as served by GET /version.
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"build_date": BuildDate,
	}
}

// String renders the multi-line banner printed by the version commands.
func String(program string) string {
	return fmt.Sprintf("%s %s\n  commit: %s\n  built:  %s\n", program, Version, GitCommit, BuildDate)
}

// UserAgent identifies program in outbound HTTP requests.
func UserAgent(program string) string {
	return program + "/" + Version
}
