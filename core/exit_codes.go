package core

// Process exit codes reported by the pipeline binary. Signal-based exits
// use the Unix 128+signal convention so wrappers and schedulers can tell a
// failed run from an interrupted one.
const (
	// ExitCodeSuccess: the run completed and the recommendation CSV was written
	ExitCodeSuccess = 0

	// ExitCodeError: validation, configuration, or a pipeline stage failed
	ExitCodeError = 1

	// ExitCodeSIGINT: interrupted with Ctrl+C (128 + 2)
	ExitCodeSIGINT = 130

	// ExitCodeSIGTERM: terminated by the service manager (128 + 15)
	ExitCodeSIGTERM = 143
)

// ExitCodeName returns a human-readable name for an exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeSIGINT:
		return "interrupted (SIGINT)"
	case ExitCodeSIGTERM:
		return "terminated (SIGTERM)"
	default:
		return "unknown"
	}
}

// IsSignalExit reports whether the exit code came from a signal rather than
// a pipeline failure.
func IsSignalExit(code int) bool {
	return code == ExitCodeSIGINT || code == ExitCodeSIGTERM
}
