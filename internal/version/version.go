// Package version reports build metadata for both services. The values are
// set at link time, for example:
//
//	go build -ldflags "\
//	  -X github.com/mrussa/storefront/internal/version.version=v0.3.0 \
//	  -X github.com/mrussa/storefront/internal/version.commit=$(git rev-parse --short HEAD) \
//	  -X github.com/mrussa/storefront/internal/version.date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	  ./cmd/order-service
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Build is logged when a service starts.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func Current() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

// Version is the release tag alone, "dev" for unreleased builds.
func Version() string { return version }

func (b Build) String() string {
	return fmt.Sprintf("%s (%s, built %s)", b.Version, b.Commit, b.Date)
}
