package gdb

import (
	"errors"
	"fmt"
)

// Kind classifies recoverable faults so the tool boundary can map every
// failure to a uniform payload with one exhaustive switch.
type Kind string

const (
	// KindNotFound covers unknown sessions and missing paths/executables.
	KindNotFound Kind = "not_found"
	// KindValidation covers malformed arguments.
	KindValidation Kind = "validation"
	// KindTimeout covers commands that exceeded their allotted time.
	KindTimeout Kind = "timeout"
	// KindSession covers process death and not-alive sessions.
	KindSession Kind = "session"
	// KindPermission covers policy and advanced-mode rejections.
	KindPermission Kind = "permission"
)

// Error is the single recoverable error type of the gdb service.
type Error struct {
	Kind    Kind
	Message string
	// Partial holds output collected before a timeout or process death,
	// surfaced so callers can display it for diagnosis.
	Partial string
}

func (e *Error) Error() string {
	if e.Partial != "" {
		return e.Message + ". Partial output:\n" + e.Partial
	}
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind, true
	}
	return "", false
}
