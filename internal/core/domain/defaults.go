package domain

// Defaults holds project-level defaults read from the defaults file.
// Empty fields leave the built-in default in place; command-line flags win over both.
type Defaults struct {
	Types               []string
	Extra               []string
	Ignore              []string
	Mode                Mode
	Arch                string
	NodeVersion         string
	HeadersURL          string
	LibraryURL          string
	BuildTool           string
	GypDir              string
	DisableArtifactCopy bool
}
