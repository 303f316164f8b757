// Package host reports platform facts used for artifact paths and build arguments.
package host

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Libc families.
const (
	LibcGlibc   = "glibc"
	LibcMusl    = "musl"
	LibcUnknown = "unknown"
)

// Probe implements ports.HostProbe.
type Probe struct {
	goos   string
	goarch string
	root   string

	libcOnce sync.Once
	libc     string
}

// NewProbe creates a probe of the running machine.
func NewProbe() *Probe {
	return &Probe{goos: runtime.GOOS, goarch: runtime.GOARCH, root: "/"}
}

// NewProbeFor creates a probe for the given GOOS/GOARCH whose filesystem
// checks are rooted at root.
func NewProbeFor(goos, goarch, root string) *Probe {
	return &Probe{goos: goos, goarch: goarch, root: root}
}

// Platform returns the platform name, win32 for Windows and GOOS otherwise.
func (p *Probe) Platform() string {
	return PlatformName(p.goos)
}

// Arch returns the default target architecture name.
func (p *Probe) Arch() string {
	return ArchName(p.goarch)
}

// Libc detects the C library on Linux by its dynamic loader. Other
// platforms report "unknown".
func (p *Probe) Libc() string {
	p.libcOnce.Do(func() {
		p.libc = p.detectLibc()
	})
	return p.libc
}

func (p *Probe) detectLibc() string {
	if p.goos != "linux" {
		return LibcUnknown
	}
	for _, pattern := range []string{"lib/ld-musl-*.so.1", "usr/lib/ld-musl-*.so.1"} {
		if matches, _ := filepath.Glob(filepath.Join(p.root, pattern)); len(matches) > 0 {
			return LibcMusl
		}
	}
	for _, pattern := range []string{"lib*/ld-linux*.so.*", "lib/*/ld-linux*.so.*", "lib*/libc.so.6", "lib/*/libc.so.6"} {
		if matches, _ := filepath.Glob(filepath.Join(p.root, pattern)); len(matches) > 0 {
			return LibcGlibc
		}
	}
	if _, err := os.Stat(filepath.Join(p.root, "etc", "alpine-release")); err == nil {
		return LibcMusl
	}
	return LibcUnknown
}

// PlatformName maps a GOOS value to the runtime's platform name.
func PlatformName(goos string) string {
	if goos == "windows" {
		return "win32"
	}
	return goos
}

// ArchName maps a GOARCH value to the runtime's architecture name.
func ArchName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "ia32"
	default:
		return goarch
	}
}
