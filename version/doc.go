// Package version reports the tinypng-compress build.
//
// Version, Commit and Date are set at link time:
//
//	-ldflags "-X github.com/dendrascience/tinypng-compress/version.Version=v1.0.0 -X ...Commit=abc123 -X ...Date=2025-01-01T00:00:00Z"
//
// When they are left at their defaults the values recorded by the Go
// toolchain in the binary's build info are used instead.
package version
