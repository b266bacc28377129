package oascapture

import (
	"fmt"
	"runtime"
)

var (
	// version, commit and buildTime are set via ldflags for release builds.
	// Development builds report "dev" and "unknown".
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// Commit returns the git commit of the build or 'unknown'
func Commit() string {
	return commit
}

// BuildTime returns the RFC3339 build timestamp or 'unknown'
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go runtime version
func GoVersion() string {
	return runtime.Version()
}

// BuildInfo returns the build metadata on one line.
func BuildInfo() string {
	return fmt.Sprintf("Version: %s, Commit: %s, Build Time: %s, Go Version: %s",
		version, commit, buildTime, runtime.Version())
}

// UserAgent returns the User-Agent header sent by clients
func UserAgent() string {
	return fmt.Sprintf("oascapture/%s", version)
}
