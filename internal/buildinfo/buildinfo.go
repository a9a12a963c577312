// Package buildinfo holds release metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/aidanlsb/sift/internal/buildinfo.Version=v0.3.0"
package buildinfo

// Empty for local builds; version.go falls back to debug.ReadBuildInfo.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
