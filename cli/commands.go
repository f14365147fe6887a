package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Scan   ScanCmd   `cmd:"" help:"Scan a text file and report line, word and window statistics."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for inspecting scanner behavior."`
}
