package salesforce

import (
	"errors"
	"fmt"
)

// RemoteError represents any API response with status >= 400 that is not an
// expired session. Message carries the text extracted from the platform's
// structured error list when present, otherwise the raw body.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("salesforce api error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("salesforce api error (%d): %s", e.Status, e.Message)
}

// NewRemoteError creates a new RemoteError
func NewRemoteError(status int, code, message string) *RemoteError {
	return &RemoteError{Status: status, Code: code, Message: message}
}

// AuthExpiredError represents a 401 carrying the INVALID_SESSION_ID error
// code. It is distinguished from RemoteError so a caller layer can refresh
// the bearer token and retry the whole operation.
type AuthExpiredError struct {
	Message string
}

func (e *AuthExpiredError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("salesforce session expired: %s", e.Message)
	}
	return "salesforce session expired: please refresh your bearer token"
}

// NotFoundError represents a navigation target record that does not exist.
type NotFoundError struct {
	ObjectName string
	RecordID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %s not found in %s", e.RecordID, e.ObjectName)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(objectName, recordID string) *NotFoundError {
	return &NotFoundError{ObjectName: objectName, RecordID: recordID}
}

// ConfigError represents missing connection parameters at construction.
// Fatal at startup, never retried.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("salesforce configuration error: %s", e.Message)
}

// IsAuthExpired reports whether err (or anything it wraps) is an expired
// session error.
func IsAuthExpired(err error) bool {
	var ae *AuthExpiredError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
