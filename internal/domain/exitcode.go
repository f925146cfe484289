package domain

// ExitCode represents the exit status of the orchestrator.
type ExitCode int

const (
	// ExitClean indicates a completed review with no critical findings.
	ExitClean ExitCode = 0
	// ExitFindings indicates a completed review with critical findings.
	ExitFindings ExitCode = 1
	// ExitError indicates the session failed due to an error.
	ExitError ExitCode = 2
	// ExitInterrupted indicates the session was interrupted by a signal
	// or the user declined to supply clarification.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
