// Package version exposes the build's VCS revision.
package version

import "runtime/debug"

// Revision is the VCS revision the binary was built from, or "unknown" when
// the build carries no VCS metadata.
var Revision = getRevision()

func getRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}

	return "unknown"
}
