// Package version exposes build metadata.
package version

// Version is the service version, overridable at build time via
// -ldflags "-X transmate/internal/version.Version=...".
var Version = "0.1.0"
