package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMeta returns a copy of the error's metadata
func GetMeta(err error) map[string]any {
	var customErr *Error
	if err == nil || !errors.As(err, &customErr) || customErr.Meta == nil {
		return nil
	}

	meta := make(map[string]any, len(customErr.Meta))
	for k, v := range customErr.Meta {
		meta[k] = v
	}
	return meta
}

// GetMessage extracts the message of the outermost *Error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// Reason returns the message a player should see for err. Rejected moves
// surface their innermost message ("not enough mana"); faults collapse to a
// generic sentence.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	code := GetCode(err)
	if !code.Rejected() {
		if code == CodeAborted {
			return "the match changed while you were acting, try again"
		}
		return "something went wrong, try again"
	}

	msg := GetMessage(err)
	var customErr *Error
	for cur := err; errors.As(cur, &customErr); cur = customErr.Cause {
		if customErr.Code == code {
			msg = customErr.Message
		}
		if customErr.Cause == nil {
			break
		}
	}
	return msg
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return GetCode(err) == CodePermissionDenied
}

// IsFailedPrecondition checks if an error is a failed precondition error
func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

// IsAborted checks if an error is an aborted error
func IsAborted(err error) bool {
	return GetCode(err) == CodeAborted
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsDataLoss checks if an error is a data loss error
func IsDataLoss(err error) bool {
	return GetCode(err) == CodeDataLoss
}
