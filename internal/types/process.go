package types

type (
	ProcessInfo struct {
		PID  int32  `json:"pid"`
		Name string `json:"name"`
		Path string `json:"path"`
	}

	// NetProcRow groups every socket owned by one process.
	NetProcRow struct {
		PID         int32    `json:"pid"`
		Name        string   `json:"name"`
		Path        string   `json:"path"`
		Protocols   []string `json:"protocols"`
		LocalPorts  []uint32 `json:"local_ports"`
		RemotePorts []uint32 `json:"remote_ports"`
	}
)
