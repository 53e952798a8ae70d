// Package version provides application version information.
// The version can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/MTG-Collection/internal/version.Version=v1.2.3"
package version

import "fmt"

// Version is the application version. It defaults to "dev" and can be
// overridden at build time using ldflags.
var Version = "dev"

// Name is the application name shown by the CLI and the API.
const Name = "mtg-collection"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// String returns the name and version, e.g. "mtg-collection dev".
func String() string {
	return fmt.Sprintf("%s %s", Name, Version)
}
