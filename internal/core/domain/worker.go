package domain

// WorkerRequest is the single message sent to a build worker process.
type WorkerRequest struct {
	ModuleName string   `json:"moduleName"`
	BuildArgs  []string `json:"buildArgs"`
	WorkDir    string   `json:"workDir"`
	// Tool is the build tool executable. Empty selects the worker's default.
	Tool string `json:"tool,omitempty"`
}

// WorkerResult is what the parent observes of a finished build worker.
type WorkerResult struct {
	ExitCode int
	// Output holds the combined stdout and stderr of the worker.
	Output []byte
}
