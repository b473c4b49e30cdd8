package version

// Version information for workspaced
var (
	// Version is the current semantic version
	Version = "0.3.0"

	// BuildDate is set during build time (use -ldflags -X)
	BuildDate = "development"

	// GitCommit is set during build time (use -ldflags -X)
	GitCommit = "unknown"
)

// Info returns version information as a string
func Info() string {
	return Version
}

// FullInfo returns detailed version information
func FullInfo() string {
	return "workspaced " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
