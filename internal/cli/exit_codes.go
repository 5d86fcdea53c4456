package cli

// Exit codes for the yaclog CLI, for scripting and CI use.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the command failed
	ExitFailure = 1

	// ExitUsageError indicates invalid command arguments
	ExitUsageError = 2

	// ExitAborted indicates the user declined a confirmation prompt
	ExitAborted = 3
)
