// Package version reports build information for the module's executables.
//
// Version, Commit and BuildTime are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/modular/version.Version=1.0.0" ./cmd/garage
//
// Values left empty are filled from the VCS stamp embedded by the Go
// toolchain when available.
package version
