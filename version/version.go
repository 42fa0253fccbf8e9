package version

import (
	"fmt"
	"runtime/debug"
)

// The name to use when referring to the application
const ApplicationName = "test9918"

// The chip being impersonated. Used in the window title and in the monitor
// banner
const Device = "TMS9918A/F18A"

// set by the makefile with -ldflags
var number string

// the vcs revision, suffixed with "+dirty" if the source was modified but not
// committed
var revision string

// "unreleased" if the project was built without the makefile and "local" if
// there is no vcs information at all (eg. with "go run .")
var version string

// Version returns the version string, the revision string and whether this is a
// numbered release
func Version() (string, string, bool) {
	return version, revision, version == number
}

// Title is suitable for a window title
func Title() string {
	ver, rev, rel := Version()
	if rel {
		return fmt.Sprintf("%s (%s)", ApplicationName, ver)
	}
	return fmt.Sprintf("%s (%s)", ApplicationName, rev)
}

// Banner is printed by the monitor on startup
func Banner() string {
	ver, rev, _ := Version()
	return fmt.Sprintf("%s %s [%s] emulating %s", ApplicationName, ver, rev, Device)
}

func init() {
	var vcs bool
	var vcsRevision string
	var vcsModified bool

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, v := range info.Settings {
			switch v.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				vcsRevision = v.Value
			case "vcs.modified":
				vcsModified = v.Value == "true"
			}
		}
	}

	switch {
	case vcsRevision == "":
		revision = "no revision information"
	case vcsModified:
		revision = fmt.Sprintf("%s+dirty", vcsRevision)
	default:
		revision = vcsRevision
	}

	switch {
	case number != "":
		version = number
	case vcs:
		version = "unreleased"
	default:
		version = "local"
	}
}
