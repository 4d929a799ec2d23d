// Package misc keeps build time information about the program.
package misc

// set by the linker: -X makejets/misc.version=... -X makejets/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name used for logs, reports and temporary files.
func GetAppName() string {
	return "makejets"
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
