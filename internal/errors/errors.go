package errors

import (
	"errors"
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

var (
	// General Errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrPathNotAccessible = errors.New("path is not accessible")

	// File & Directory Errors
	ErrFileNotFound   = errors.New("file not found")
	ErrFileReadError  = errors.New("error reading file")
	ErrFileWriteError = errors.New("error writing to file")
	ErrFileExists     = errors.New("file already exists")
	ErrDirNotFound    = errors.New("directory not found")

	// Workflow Definition Errors
	ErrWorkflowNotFound  = errors.New("workflow file not found")
	ErrWorkflowMalformed = errors.New("workflow definition is malformed")
	ErrWorkflowInvalid   = errors.New("workflow validation failed")
	ErrUnsupportedFormat = errors.New("unsupported workflow file format")

	// Step Execution Errors
	ErrStepFailed   = errors.New("step command failed")
	ErrStepTimeout  = errors.New("step command timed out")
	ErrLaunchFailed = errors.New("step command could not be launched")
	ErrRunCancelled = errors.New("workflow run cancelled")
)
