// Package apperrors defines the error categories shared across the API:
// the HTTP layer maps each category to a status code in one place, so the
// rest of the code can return plain errors with a category attached.
package apperrors

import (
	"errors"
	"fmt"

	"hermannm.dev/enumnames"
)

type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNotFound
	KindConflict
	KindExecution
)

var kindNames = enumnames.NewMap(map[Kind]string{
	KindValidation: "VALIDATION",
	KindAuth:       "AUTH",
	KindNotFound:   "NOT_FOUND",
	KindConflict:   "CONFLICT",
	KindExecution:  "EXECUTION",
})

func (kind Kind) IsValid() bool {
	return kindNames.ContainsEnumValue(kind)
}

func (kind Kind) String() string {
	return kindNames.GetNameOrFallback(kind, "INVALID_ERROR_KIND")
}

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (err *Error) Error() string {
	if err.Cause != nil {
		return fmt.Sprintf("%s: %v", err.Message, err.Cause)
	}
	return err.Message
}

func (err *Error) Unwrap() error {
	return err.Cause
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(message string) error {
	return &Error{Kind: KindAuth, Message: message}
}

func AuthCause(cause error, message string) error {
	return &Error{Kind: KindAuth, Message: message, Cause: cause}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Execution marks a failure in a downstream store or warehouse call. The
// cause's message is passed through to the response detail (credentials
// never appear in those messages).
func Execution(cause error, message string) error {
	return &Error{Kind: KindExecution, Message: message, Cause: cause}
}

// KindOf returns the category of err, or KindExecution for errors that
// carry no category (unknown failures are treated as server faults).
func KindOf(err error) Kind {
	var appError *Error
	if errors.As(err, &appError) {
		return appError.Kind
	}
	return KindExecution
}
