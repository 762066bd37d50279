// Package httperr defines the typed error taxonomy and the single normalizer
// that produces every client-visible error body.
package httperr

import "fmt"

// Error is the uniform failure shape handlers return. The fiber error handler
// is the only place it is rendered to JSON.
type Error struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches the underlying failure for logs; the cause is never
// exposed to the client.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func Unauthorized(message string) *Error {
	return &Error{StatusCode: 401, Name: "UnauthorizedError", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{StatusCode: 403, Name: "ForbiddenError", Message: message}
}

func NotFound(message string) *Error {
	return &Error{StatusCode: 404, Name: "NotFoundError", Message: message}
}

func BadRequest(message string) *Error {
	return &Error{StatusCode: 400, Name: "BadRequestError", Message: message}
}

func BadData(message string) *Error {
	return &Error{StatusCode: 400, Name: "BadDataError", Message: message}
}

func Database(message string) *Error {
	return &Error{StatusCode: 500, Name: "DatabaseError", Message: message}
}

func CascadingDelete(message string) *Error {
	return &Error{StatusCode: 500, Name: "CascadingDeleteError", Message: message}
}

func Redirect(message string) *Error {
	return &Error{StatusCode: 500, Name: "RedirectError", Message: message}
}

func ServiceUnavailable(message string) *Error {
	return &Error{StatusCode: 500, Name: "ServiceUnavailableError", Message: message}
}
