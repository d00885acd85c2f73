// Package buildtime holds the version of curate, given at build time:
//
//	go build -ldflags "-X github.com/termcurator/curate/pkg/buildtime.version=v1.2.3"
//
// The revision is taken from VCS stamps of the build when not given.
package buildtime

import (
	"runtime/debug"
	"strings"
)

var version = "dev"

var revision = ""

func init() {
	version = strings.TrimSpace(version)
	revision = strings.TrimSpace(revision)
	if revision != "" {
		return
	}
	revision = "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				revision = s.Value
			}
		}
	}
}

// version string when this curate has been built.
func VERSION() string {
	return version
}

func GIT_REVISION() string {
	return revision
}

func VersionString() string {
	return version + " (commit: " + revision + ")"
}
