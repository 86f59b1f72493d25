package peripheral

// RunState is the server's position in its lifecycle. States only ever
// advance; StateStopped is terminal.
type RunState int

const (
	StateUninitialized RunState = 0
	StateInitializing  RunState = 1
	StateRunning       RunState = 2
	StateStopping      RunState = 3
	StateStopped       RunState = 4
)

func (s RunState) String() string {
	str := []string{
		"Uninitialized",
		"Initializing",
		"Running",
		"Stopping",
		"Stopped",
	}
	if s < 0 || int(s) >= len(str) {
		return "Invalid"
	}
	return str[int(s)]
}

// Health records whether the server failed, and when. A running
// server's health is always HealthOk; check it after the state reaches
// StateStopped to learn whether the shutdown was orderly. Once set to a
// failure value it never returns to HealthOk for the process lifetime.
type Health int

const (
	HealthOk Health = 0

	// HealthFailedInit marks a failure before the server reached
	// StateRunning.
	HealthFailedInit Health = 1

	// HealthFailedRun marks a failure after the server reached
	// StateRunning.
	HealthFailedRun Health = 2
)

func (h Health) String() string {
	str := []string{
		"Ok",
		"FailedInit",
		"FailedRun",
	}
	if h < 0 || int(h) >= len(str) {
		return "Invalid"
	}
	return str[int(h)]
}
