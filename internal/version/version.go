// Package version exposes build information injected with -ldflags:
//
//	go build -ldflags "-X github.com/MattTPin/movie-reccomendation-agent/internal/version.Version=v0.3.0"
package version

import "runtime"

// Set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Short returns the version string alone.
func Short() string {
	return Version
}

// Info returns build metadata as a flat map for JSON responses and logs.
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
		"os_arch":    runtime.GOOS + "/" + runtime.GOARCH,
	}
}
