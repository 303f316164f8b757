package config

// RCFile represents the structure of the .rebuildrc.yaml defaults file.
type RCFile struct {
	Types               []string `yaml:"types"`
	Extra               []string `yaml:"extraModules"`
	Ignore              []string `yaml:"ignoreModules"`
	Mode                string   `yaml:"mode"`
	Arch                string   `yaml:"arch"`
	DisableArtifactCopy bool     `yaml:"disablePreGypCopy"`
	Node                NodeDTO  `yaml:"node"`
	Build               BuildDTO `yaml:"build"`
}

// NodeDTO describes the target runtime.
type NodeDTO struct {
	Version    string `yaml:"version"`
	HeadersURL string `yaml:"headersUrl"`
	LibraryURL string `yaml:"libraryUrl"`
}

// BuildDTO configures the external build tool.
type BuildDTO struct {
	Tool   string `yaml:"tool"`
	GypDir string `yaml:"gypDir"`
}
