package types

type (
	AppSource string

	ApplicationInfo struct {
		Name     string    `json:"name"`
		ExePath  string    `json:"exe_path"`
		Source   AppSource `json:"source"`
		Packaged bool      `json:"packaged"`
	}
)

const (
	SourceRegistry   AppSource = "Registry"
	SourceUWP        AppSource = "UWP"
	SourceFilesystem AppSource = "Filesystem"
	SourceProcess    AppSource = "Process"
)

// Rank orders sources when the same executable is reported more than once.
func (s AppSource) Rank() int {
	switch s {
	case SourceUWP:
		return 3
	case SourceRegistry:
		return 2
	case SourceFilesystem:
		return 1
	default:
		return 0
	}
}
