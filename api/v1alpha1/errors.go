/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	"errors"
	"fmt"
)

// ErrorType identifies the kind of protocol failure.
type ErrorType string

const (
	ErrDuplicateSession     ErrorType = "duplicate-session"
	ErrUnknownSession       ErrorType = "unknown-session"
	ErrUnknownMessage       ErrorType = "unknown-message"
	ErrUnexpectedMessage    ErrorType = "unexpected-message"
	ErrBudgetViolation      ErrorType = "budget-violation"
	ErrStepMismatch         ErrorType = "step-mismatch"
	ErrUnsupportedParameter ErrorType = "unsupported-parameter"
	ErrIncapable            ErrorType = "incapable"
	ErrInvalidDomain        ErrorType = "invalid-domain"
)

// Error is a failure detected while speaking the protocol. None of these are retried.
type Error struct {
	// Type is the kind of failure.
	Type ErrorType
	// Message is a human readable description of the failure.
	Message string
}

// Error returns the message (prefixed with the type) of the failure.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewError returns a new protocol error of the supplied type.
func NewError(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// IsProtocolViolation returns true if the supplied error indicates a broken peer.
func IsProtocolViolation(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Type {
	case ErrDuplicateSession,
		ErrUnknownSession,
		ErrUnknownMessage,
		ErrUnexpectedMessage,
		ErrBudgetViolation,
		ErrStepMismatch:
		return true
	}
	return false
}

// IsUnsupportedParameter returns true if the supplied error is a sampling capability mismatch.
func IsUnsupportedParameter(err error) bool {
	return hasType(err, ErrUnsupportedParameter) || hasType(err, ErrIncapable)
}

func hasType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}
