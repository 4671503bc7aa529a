package version

// Filled with -ldflags on build:
//
//	go build -ldflags "-X github.com/dagnet/noded/internal/core/version.Version=v0.2.1"
var Version = "dev"

// String returns the build identifier reported by the status endpoint.
func String() string {
	return Version
}
