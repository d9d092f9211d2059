package journal

// Run is one harness invocation.
type Run struct {
	ID         string `json:"id"`
	Identity   string `json:"identity"`
	ConfigPath string `json:"config_path"`
	TestMode   bool   `json:"test_mode"`
	Outcome    string `json:"outcome"` // "OK", "FAILED", "ABORTED", or "" while running
	Artifact   string `json:"artifact,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Event is one stage transition of a run.
type Event struct {
	Seq    int64  `json:"seq"`
	Stage  string `json:"stage"`
	Detail string `json:"detail,omitempty"`
}
