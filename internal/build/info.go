// Package build exposes build-time metadata injected via ldflags.
package build

// Version, Commit, and Branch are set at build time by:
//
//	-ldflags "-X github.com/joestump/studyshelf/internal/build.Version=... ..."
var (
	Version = "dev"
	Commit  = "unknown"
	Branch  = "unknown"
)

// UserAgent is sent on outbound requests to the notification sink.
func UserAgent() string {
	return "studyshelf/" + Version + " (+" + Commit + ")"
}
