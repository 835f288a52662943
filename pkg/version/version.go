// Package version holds the application version, overridable at build time
// via -ldflags "-X atlasgo/pkg/version.Version=...".
package version

// Version is the application version string.
var Version = "0.3.0-dev"
