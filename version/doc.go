// Package version carries the build identity of the audiovault binary.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/audiovault/version.Version=1.0.0" ./cmd/audiovault
//
// Anything left unset falls back to the module's embedded VCS stamps.
package version
