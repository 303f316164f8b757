package rebuilder

import (
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/rebuild/internal/core/domain"
)

// ArgsInput is everything needed to assemble the build tool arguments for one module.
type ArgsInput struct {
	ModulePath string
	Manifest   *domain.Manifest

	BuildType      domain.BuildType
	Platform       string
	Arch           string
	Libc           string
	NodeDir        string
	NodeLibFile    string
	ToolsetVersion string
}

var placeholderPattern = regexp.MustCompile(`\{[^{}]+\}`)

// BuildArgs returns the build tool arguments and the placeholders left
// unresolved in them.
func BuildArgs(in ArgsInput) (args, unresolved []string) {
	args = []string{
		"rebuild",
		"--node_lib_file=" + in.NodeLibFile,
		"--nodedir=" + in.NodeDir,
		"--verbose",
	}
	if in.BuildType == domain.BuildDebug {
		args = append(args, "--debug")
	}

	var binary domain.BinaryConfig
	var version string
	if in.Manifest != nil {
		binary = in.Manifest.Binary
		version = in.Manifest.Version
	}

	replacements := [][2]string{
		{"{configuration}", string(in.BuildType)},
		{"{platform}", in.Platform},
		{"{arch}", in.Arch},
		{"{version}", version},
		{"{libc}", in.Libc},
	}
	if napi, ok := maxNapiVersion(binary); ok {
		replacements = append(replacements, [2]string{"{napi_build_version}", napi})
	}
	for _, e := range binary {
		replacements = append(replacements, [2]string{"{" + e.Key + "}", e.Value})
	}

	for _, e := range binary {
		if e.Key == domain.NapiVersionsKey {
			continue
		}

		value := e.Value
		if e.Key == domain.ModulePathKey && !filepath.IsAbs(value) {
			value = filepath.Join(in.ModulePath, value)
		}
		// One round per key, in order. Text produced by a replacement is only
		// revisited by the keys after it.
		for _, r := range replacements {
			value = strings.ReplaceAll(value, r[0], r[1])
		}

		unresolved = append(unresolved, placeholderPattern.FindAllString(value, -1)...)
		args = append(args, "--"+e.Key+"="+value)
	}

	if in.ToolsetVersion != "" {
		args = append(args, "--msvs_version="+in.ToolsetVersion)
	}

	slices.Sort(unresolved)
	return args, slices.Compact(unresolved)
}

// maxNapiVersion returns the highest numeric entry of the napi_versions key.
func maxNapiVersion(binary domain.BinaryConfig) (string, bool) {
	entry, ok := binary.Lookup(domain.NapiVersionsKey)
	if !ok {
		return "", false
	}

	best, found := 0, false
	for _, v := range entry.List {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	if !found {
		return "", false
	}
	return strconv.Itoa(best), true
}
