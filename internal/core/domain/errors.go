package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// Error classes. Concrete failures are joined with their class so callers can
// test membership with errors.Is.
var (
	// ErrConfig is the class of invalid configuration failures. Fatal before any module work.
	ErrConfig = zerr.New("invalid configuration")

	// ErrNetwork is the class of asset download failures after the retry budget is spent.
	ErrNetwork = zerr.New("network error")

	// ErrManifestRead is the class of unreadable or malformed manifests.
	ErrManifestRead = zerr.New("failed to read manifest")

	// ErrBuildFailed is the class of external build tool failures.
	ErrBuildFailed = zerr.New("native build failed")

	// ErrCacheIO is the class of cache marker read/write failures.
	ErrCacheIO = zerr.New("build cache i/o failed")
)

var (
	// ErrBuildPathNotAbsolute is returned when the build root is relative.
	ErrBuildPathNotAbsolute = zerr.New("expected build path to be an absolute path")

	// ErrBuildRootNotFound is returned when no module directory to rebuild can be located.
	ErrBuildRootNotFound = zerr.New("unable to find module directory, specify it via --module-dir")

	// ErrUnknownABI is returned when no ABI is known for the target runtime version.
	ErrUnknownABI = zerr.New("unknown ABI for runtime version, use --force-abi")

	// ErrInvalidABI is returned when an ABI override is not a number.
	ErrInvalidABI = zerr.New("force-abi must be a number")

	// ErrInvalidDependencyType is returned for a dependency type outside prod, dev and optional.
	ErrInvalidDependencyType = zerr.New("invalid dependency type, expected 'prod', 'dev' or 'optional'")

	// ErrInvalidMode is returned when both parallel and sequential are requested.
	ErrInvalidMode = zerr.New("parallel and sequential are mutually exclusive")

	// ErrUnknownLogFormat is returned for a log format other than pretty or json.
	ErrUnknownLogFormat = zerr.New("unknown log format, expected 'pretty' or 'json'")

	// ErrUnknownMode is returned for a build mode other than sequential or parallel.
	ErrUnknownMode = zerr.New("unknown build mode, expected 'sequential' or 'parallel'")

	// ErrConfigReadFailed is returned when the defaults file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the defaults file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnexpectedStatus is returned for a non-200 response.
	ErrUnexpectedStatus = zerr.New("unexpected response status")

	// ErrLibraryDownloadFailed is returned when the runtime library could not be provisioned.
	ErrLibraryDownloadFailed = zerr.New("could not download node library")

	// ErrHeadersDownloadFailed is returned when the runtime headers could not be provisioned.
	ErrHeadersDownloadFailed = zerr.New("could not download node headers")

	// ErrExtractFailed is returned when the header archive cannot be extracted.
	ErrExtractFailed = zerr.New("failed to extract archive")

	// ErrUnsafeArchivePath is returned for an archive entry escaping the destination.
	ErrUnsafeArchivePath = zerr.New("archive entry escapes destination")

	// ErrMetaReadFailed is returned when a cache marker cannot be read.
	ErrMetaReadFailed = zerr.New("failed to read build marker")

	// ErrMetaWriteFailed is returned when a cache marker cannot be written.
	ErrMetaWriteFailed = zerr.New("failed to write build marker")

	// ErrArtifactCopyFailed is returned when the compiled add-on cannot be relocated.
	ErrArtifactCopyFailed = zerr.New("failed to copy compiled add-on")

	// ErrWorkerStartFailed is returned when the build worker process cannot be started.
	ErrWorkerStartFailed = zerr.New("failed to start build worker")

	// ErrWorkerRequestInvalid is returned when the worker receives a malformed request.
	ErrWorkerRequestInvalid = zerr.New("invalid build worker request")
)

// BuildError reports a non-zero exit of the external build tool for one module.
// It carries the combined output captured from the build worker.
type BuildError struct {
	Module   string
	Path     string
	ExitCode int
	Output   []byte
}

// Error implements error.
func (e *BuildError) Error() string {
	return fmt.Sprintf("node-gyp failed to rebuild '%s' (exit code %d)", e.Path, e.ExitCode)
}

// Unwrap places the error in the ErrBuildFailed class.
func (e *BuildError) Unwrap() error {
	return ErrBuildFailed
}
