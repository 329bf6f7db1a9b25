// Package version exposes build metadata stamped in with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/chunkscribe/version.Version=1.2.0"
//
// Values missing from ldflags are filled from the module's embedded VCS
// information where available.
package version
