// Package version reports the build version of the apiclient binaries.
//
// Version and Commit may be set at link time:
//
//	go build -ldflags "-X github.com/kbukum/apiclient/version.Version=1.0.0"
//
// Otherwise the VCS settings recorded by the Go toolchain are used.
package version
