// Package version reports build information for the pls binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Info returns a multi-line summary of the build, omitting unset fields.
func Info() string {
	var b strings.Builder

	fmt.Fprintf(&b, "version:    %s\n", GetVersion())
	fmt.Fprintf(&b, "revision:   %s\n", Revision)

	for _, f := range []struct{ k, v string }{
		{"branch", Branch},
		{"build user", BuildUser},
		{"build date", BuildDate},
	} {
		if f.v != "" {
			fmt.Fprintf(&b, "%-11s %s\n", f.k+":", f.v)
		}
	}

	fmt.Fprintf(&b, "go version: %s\n", GoVersion)
	fmt.Fprintf(&b, "platform:   %s/%s\n", GoOS, GoArch)

	return b.String()
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			if len(v.Value) > 7 {
				rev = v.Value[:7]
			} else {
				rev = v.Value
			}

		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
