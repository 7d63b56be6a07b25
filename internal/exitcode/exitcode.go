// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, ambiguous,
	// rejected input).
	UserError = 1

	// AuthError indicates a Google login problem during import.
	AuthError = 2

	// BackendError indicates a storage or network failure.
	BackendError = 3
)
