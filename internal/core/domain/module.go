package domain

import "path/filepath"

// Module is a directory in the module tree that may need a native rebuild.
type Module struct {
	// Path is the resolved absolute path of the module directory.
	Path string
	// Name is the display name, scope-qualified for scoped modules (e.g. "@scope/pkg").
	Name string
	// Type is the most permissive classification seen while walking. Empty when the
	// module is not reachable from the build root manifest.
	Type DependencyType
	// HasBuildDescriptor reports whether binding.gyp exists at the module root.
	HasBuildDescriptor bool
}

// ModuleName derives the display name of the module at modulePath. A module whose
// parent directory is not node_modules is qualified with the parent name.
func ModuleName(modulePath string) string {
	name := filepath.Base(modulePath)
	parent := filepath.Base(filepath.Dir(modulePath))
	if parent != NodeModulesDirName {
		return parent + "/" + name
	}
	return name
}
