package domain

import "errors"

// Domain errors represent failures independent of any one vendor.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedVendor indicates an unknown vendor identifier.
	ErrUnsupportedVendor = errors.New("unsupported vendor")

	// ErrMissingCredentials indicates required credential keys are absent.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAborted indicates the user declined a confirmation prompt.
	ErrAborted = errors.New("aborted")

	// ErrConfirmationRequired indicates a destructive command ran without a
	// terminal to prompt on and without --yes.
	ErrConfirmationRequired = errors.New("confirmation required: re-run with --yes")

	// ErrTokenRefreshFailed indicates an access token could not be obtained.
	ErrTokenRefreshFailed = errors.New("token refresh failed")
)
