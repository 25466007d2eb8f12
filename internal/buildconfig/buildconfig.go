package buildconfig

import "runtime"

// Build-time variables injected via ldflags:
//
//	-X github.com/helios-game/helios/internal/buildconfig.version=v0.3.0
var (
	version = "0.2.0-dev"
	commit  = "unknown"
)

const ServiceName = "Helios Agent Core"

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo returns full version information
func VersionInfo() map[string]string {
	return map[string]string{
		"version":    version,
		"commit":     commit,
		"go_version": runtime.Version(),
	}
}
