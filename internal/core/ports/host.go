package ports

// HostProbe reports facts about the machine the rebuild runs on.
//
//go:generate mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type HostProbe interface {
	// Platform returns the platform name used in artifact paths (win32, linux, darwin).
	Platform() string
	// Arch returns the default target architecture (x64, ia32, arm64).
	Arch() string
	// Libc returns the C library family, "glibc" or "musl", or "unknown".
	Libc() string
}
