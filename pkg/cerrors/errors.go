package cerrors

import "github.com/palantir/stacktrace"

type ErrorType string

const (
	ErrorTypeNonUserFriendly  ErrorType = "NON_USER_FRIENDLY_ERROR"
	ErrorTypeGeneric          ErrorType = "GENERIC_ERROR"
	ErrorTypeConfig           ErrorType = "CONFIG_ERROR"
	ErrorTypeManifestLoad     ErrorType = "MANIFEST_LOAD_ERROR"
	ErrorTypeCommandExecution ErrorType = "COMMAND_EXECUTION_ERROR"
	ErrorTypeWatcher          ErrorType = "WATCHER_ERROR"
	ErrorTypeReport           ErrorType = "REPORT_ERROR"
	ErrorTypeInterrupted      ErrorType = "INTERRUPTED_ERROR"
	ErrorTypeTimeout          ErrorType = "TIMEOUT_ERROR"
)

type userFriendly interface {
	UserFriendly() bool
	ErrorType() ErrorType
}

// IsUserFriendly returns true if err is marked as safe to present to the operator
func IsUserFriendly(err error) bool {
	ufe, ok := err.(userFriendly)
	return ok && ufe.UserFriendly()
}

// GetErrorType returns the type of error if the error is user-friendly
func GetErrorType(err error) ErrorType {
	if ufe, ok := err.(userFriendly); ok {
		return ufe.ErrorType()
	}
	return ErrorTypeNonUserFriendly
}

// GetRootCauseAndErrorCode unwraps the stacktrace chain and returns the message
// worth printing together with its error type
func GetRootCauseAndErrorCode(err error) (string, ErrorType) {
	rootCause := stacktrace.RootCause(err)
	errorType := GetErrorType(rootCause)
	if !IsUserFriendly(rootCause) {
		return err.Error(), errorType
	}
	return rootCause.Error(), errorType
}

// IsType reports whether the root cause of err carries the given error type
func IsType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	return GetErrorType(stacktrace.RootCause(err)) == errorType
}
