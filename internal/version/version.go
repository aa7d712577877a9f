// Package version derives the default User-Agent string from build
// information.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time using -ldflags.
var Version = "dev"

// UserAgent returns the default User-Agent header value, e.g.
// "restclient/dev (go1.23.0)".
func UserAgent() string {
	goVersion := ""
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
	}
	if goVersion == "" {
		return fmt.Sprintf("restclient/%s", Version)
	}
	return fmt.Sprintf("restclient/%s (%s)", Version, goVersion)
}
