package app

import (
	"fmt"
	"runtime"
)

// These are intended to be set via -ldflags at build time.
var (
	version   = "dev"
	commitSHA = ""
	buildDate = ""
)

// VersionInfo is the output of the version command.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	Platform  string `json:"platform"`
}

// Render returns the one-line version string.
func (v VersionInfo) Render() string {
	s := v.Version
	if v.Commit != "" {
		s += "+" + v.Commit
	}
	if v.BuildDate != "" {
		s += " (" + v.BuildDate + ")"
	}
	return s
}

// Version returns the build version.
func Version() VersionInfo {
	return VersionInfo{
		Version:   version,
		Commit:    commitSHA,
		BuildDate: buildDate,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// UserAgent is sent with every spec download.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s)", AppName, version, runtime.GOOS, runtime.GOARCH)
}

// ShowVersion prints the version.
func ShowVersion(format, outputPath string) error {
	return OutputResult(Version(), format, outputPath)
}
