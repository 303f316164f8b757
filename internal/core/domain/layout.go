package domain

import (
	"path/filepath"
	"strings"
)

const (
	// NodeModulesDirName is the name of a module directory tree.
	NodeModulesDirName = "node_modules"

	// ManifestFileName is the name of a module manifest.
	ManifestFileName = "package.json"

	// BuildDescriptorFileName is the name of the native build descriptor.
	BuildDescriptorFileName = "binding.gyp"

	// BuildDirName is the name of the build output directory inside a module.
	BuildDirName = "build"

	// BinDirName is the name of the prebuilt artifact directory inside a module.
	BinDirName = "bin"

	// MetaFileName is the name of the build cache marker.
	MetaFileName = ".forge-meta"

	// AddonExt is the file extension of a compiled add-on.
	AddonExt = ".node"

	// GypDirName is the name of the shared build tool work directory in the user's home.
	GypDirName = ".rebuild-gyp"

	// ParallelGypDirName is the subdirectory of the gyp dir holding per-module work dirs.
	ParallelGypDirName = "_p"

	// ConfigFileName is the name of the optional defaults file.
	ConfigFileName = ".rebuildrc.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// LockFileNames are the package manager lock files that mark a project root.
var LockFileNames = []string{"yarn.lock", "package-lock.json", "pnpm-lock.yaml"}

// MetaPath returns the cache marker path for a module and build type.
// It joins the module path, build, the build type and .forge-meta.
func MetaPath(modulePath string, buildType BuildType) string {
	return filepath.Join(BuildOutputDir(modulePath, buildType), MetaFileName)
}

// BuildOutputDir returns the directory the build tool writes artifacts for buildType into.
func BuildOutputDir(modulePath string, buildType BuildType) string {
	return filepath.Join(modulePath, BuildDirName, string(buildType))
}

// ArtifactDir returns the versioned prebuilt directory bin/<platform>-<arch>-<abi>.
func ArtifactDir(modulePath, platform, arch, abi string) string {
	return filepath.Join(modulePath, BinDirName, platform+"-"+arch+"-"+abi)
}

// RuntimeDir returns the directory holding the target runtime assets, libnode-v<version>.
func RuntimeDir(buildRoot, nodeVersion string) string {
	return filepath.Join(buildRoot, "libnode-v"+nodeVersion)
}

// LibraryFileName returns the runtime library file name, libnode<major>.lib.
func LibraryFileName(nodeVersion string) string {
	return "libnode" + MajorVersion(nodeVersion) + ".lib"
}

// HeadersDirName returns the name of the extracted header tree, node-v<version>.
func HeadersDirName(nodeVersion string) string {
	return "node-v" + nodeVersion
}

// HeadersArchiveName returns the header archive file name.
func HeadersArchiveName(nodeVersion string) string {
	return HeadersDirName(nodeVersion) + "-headers.tar.gz"
}

// MajorVersion returns the leading numeric component of a dotted version.
func MajorVersion(version string) string {
	major, _, _ := strings.Cut(strings.TrimPrefix(version, "v"), ".")
	return major
}
