// Package version reports the build version of reportqc.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionContent string

// Override replaces the embedded version when set with
// -ldflags "-X github.com/ShayCichocki/reportqc/internal/version.Override=...".
var Override string

// Get returns the current version, with whitespace trimmed
func Get() string {
	if Override != "" {
		return strings.TrimSpace(Override)
	}
	return strings.TrimSpace(versionContent)
}

// UserAgent identifies reportqc to language model providers.
func UserAgent() string {
	return "reportqc/" + Get()
}
