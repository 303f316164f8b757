package domain

import (
	"errors"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// BuildType is the build variant passed to the native build tool.
type BuildType string

const (
	// BuildDebug selects a debug build.
	BuildDebug BuildType = "Debug"
	// BuildRelease selects a release build.
	BuildRelease BuildType = "Release"
)

// Mode controls how module builds are scheduled.
type Mode string

const (
	// ModeSequential builds one module at a time in discovery order.
	ModeSequential Mode = "sequential"
	// ModeParallel starts every module build without waiting on the others.
	ModeParallel Mode = "parallel"
)

// DependencyType classifies how a module is reachable from the build root.
type DependencyType string

const (
	// DepProd is a production dependency.
	DepProd DependencyType = "prod"
	// DepDev is a development dependency.
	DepDev DependencyType = "dev"
	// DepOptional is an optional dependency.
	DepOptional DependencyType = "optional"
)

// DefaultDependencyTypes are rebuilt when no type filter is given.
var DefaultDependencyTypes = []DependencyType{DepProd, DepOptional}

// Rank orders dependency types by permissiveness: dev < optional < prod.
// The zero value ranks below every type and means "unclassified".
func (t DependencyType) Rank() int {
	switch t {
	case DepDev:
		return 1
	case DepOptional:
		return 2 //nolint:mnd // ordering constant
	case DepProd:
		return 3 //nolint:mnd // ordering constant
	default:
		return 0
	}
}

// Narrow returns the less permissive of t and other. It is the classification
// of a path that reaches a module through an edge of type other.
func (t DependencyType) Narrow(other DependencyType) DependencyType {
	if other.Rank() < t.Rank() {
		return other
	}
	return t
}

// ParseDependencyTypes parses a list such as ["prod", "optional"].
func ParseDependencyTypes(values []string) ([]DependencyType, error) {
	types := make([]DependencyType, 0, len(values))
	for _, v := range values {
		t := DependencyType(strings.TrimSpace(v))
		if t.Rank() == 0 {
			return nil, errors.Join(ErrConfig, zerr.With(ErrInvalidDependencyType, "type", v))
		}
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	return types, nil
}

// RebuildConfig is the immutable configuration of one rebuild run.
type RebuildConfig struct {
	// BuildPath is the absolute path of the project whose module tree is rebuilt.
	BuildPath string
	// ProjectRootPath is the workspace root; supplementary module roots are searched up to it.
	ProjectRootPath string

	Platform  string
	Arch      string
	ABI       string
	BuildType BuildType
	Mode      Mode
	Force     bool

	Types []DependencyType
	// OnlyModules narrows the rebuild set when non-nil.
	OnlyModules   []string
	ExtraModules  []string
	IgnoreModules []string

	NodeVersion string
	NodeDir     string
	NodeLibFile string
	HeadersURL  string
	LibraryURL  string

	DisableArtifactCopy bool

	// BuildTool is the external native build tool executed by the build worker.
	BuildTool string
	// ToolsetVersion selects the build tool's toolset on the host, if set.
	ToolsetVersion string
	// GypDir is the shared work/cache directory of the build tool.
	GypDir string
}

// Runtime locates the target runtime assets a build links against.
type Runtime struct {
	// NodeDir is the extracted header tree.
	NodeDir string
	// NodeLibFile is the runtime library file.
	NodeLibFile string
}

// MetaData returns the cache marker content for this configuration, "<arch>--<abi>".
func (c *RebuildConfig) MetaData() string {
	return c.Arch + "--" + c.ABI
}

// IsIgnored reports whether name is in the ignore list.
func (c *RebuildConfig) IsIgnored(name string) bool {
	return slices.Contains(c.IgnoreModules, name)
}
