package bot

import (
	"errors"
	"fmt"
)

// UserError is an error whose Message is safe to show in the chat.
// Cause, when set, is an internal failure that still needs logging.
type UserError struct {
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// UserErrorf reports a user mistake. It is shown but not logged.
func UserErrorf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// WrapUserError shows message in the chat and keeps cause for the log.
func WrapUserError(message string, cause error) *UserError {
	return &UserError{Message: message, Cause: cause}
}

func IsUserError(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr)
}

// GetUserMessage returns the text to reply with: the UserError message, or a
// generic one for anything else.
func GetUserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Message
	}
	return MsgInternalError
}

// GetLogError returns what to log for err. For a UserError that is the cause
// chain, without the chat message in front.
func GetLogError(err error) error {
	var userErr *UserError
	if errors.As(err, &userErr) && userErr.Cause != nil {
		return userErr.Cause
	}
	return err
}

// ShouldLog reports whether err is more than a user mistake.
func ShouldLog(err error) bool {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Cause != nil
	}
	return true
}
