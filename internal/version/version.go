// Package version holds the asptools-go build version, printed by each
// command's --version flag.
package version

// Version is the current release of asptools-go.
const Version = "1.0.0"

// Banner returns the string each cmd/* binary prints for --version:
// "<program> <version>".
func Banner(program string) string {
	return program + " " + Version
}
