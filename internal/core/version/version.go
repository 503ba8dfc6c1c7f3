// Package version reports build metadata stamped in with -ldflags
package version

import "runtime/debug"

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
	RulePack  int    `json:"rule_pack,omitempty"`
}

// Set via -ldflags "-X 'piiredact/internal/core/version.version=v0.1.0'
// -X 'piiredact/internal/core/version.commit=abcd' -X 'piiredact/internal/core/version.date=2026-01-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		bi.GoVersion = info.GoVersion
	}
	return bi
}

// String renders "service version (commit)"
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ")"
}
