// Package version exposes the build version, overridable via ldflags.
package version

// Version is set at build time with
// -ldflags "-X github.com/hupe1980/scopemesh/internal/version.Version=v1.2.3".
var Version = "dev"
