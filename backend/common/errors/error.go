package errors

import "errors"

// CodedError pairs a stable machine-readable code with a human message. API
// clients branch on the code; the message is for people.
type CodedError struct {
	Code    string
	Message string
	cause   error
}

func (e *CodedError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *CodedError) Unwrap() error {
	return e.cause
}

func New(code string, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

func Wrap(err error, code string, message string) *CodedError {
	return &CodedError{Code: code, Message: message, cause: err}
}

// CodeOf extracts the code from an error chain, or "" when it carries none.
func CodeOf(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
