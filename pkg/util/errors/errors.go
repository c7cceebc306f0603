package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents an HTTP server error.
type HTTPError struct {
	code    int
	msg     string
	details string
}

// New creates a brand new HTTPError object
func New(code int, msg string) HTTPError {
	return HTTPError{
		code: code,
		msg:  msg,
	}
}

// NewWithDetails creates a brand new HTTPError object
func NewWithDetails(code int, msg string, details string) HTTPError {
	return HTTPError{
		code:    code,
		msg:     msg,
		details: details,
	}
}

// Error implements the error interface.
func (err HTTPError) Error() string {
	return err.msg
}

// StatusCode returns the status code for the error
func (err HTTPError) StatusCode() int {
	return err.code
}

// Details returns additional message about the error
func (err HTTPError) Details() string {
	return err.details
}

// NewNotFound creates a HTTP 404 error for a kind.
func NewNotFound(kind, name string) error {
	return HTTPError{http.StatusNotFound, fmt.Sprintf("%s %q not found", kind, name), ""}
}

// NewWrongRequest creates a HTTP 400 error, if we got a wrong request type.
func NewWrongRequest(got, want interface{}) error {
	return HTTPError{http.StatusBadRequest, fmt.Sprintf("Got a '%T' request - expected a '%T' request", got, want), ""}
}

// NewBadRequest creates a HTTP 400 error.
func NewBadRequest(msg string, options ...interface{}) error {
	return HTTPError{http.StatusBadRequest, fmt.Sprintf(msg, options...), ""}
}

// NewNotAuthorized creates a HTTP 401 error.
func NewNotAuthorized() error {
	return HTTPError{http.StatusUnauthorized, "not authorized", ""}
}

// NewConflict creates a HTTP 409 error for a kind.
func NewConflict(kind, name string) error {
	return HTTPError{http.StatusConflict, fmt.Sprintf("%s %q already exists", kind, name), ""}
}

// AlreadyExistsError is returned when a bundle create collides with an
// existing resource of the same name.
type AlreadyExistsError struct {
	Kind string
	Name string
}

func (err *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %q already exists", err.Kind, err.Name)
}

// IsAlreadyExists returns true if the given error indicates a name collision.
func IsAlreadyExists(err error) bool {
	var target *AlreadyExistsError
	return errors.As(err, &target)
}

// InvalidProjectError is returned on attempts to modify or delete a resource
// that does not carry the ownership label. It records the offending resource
// so that callers can log it.
type InvalidProjectError struct {
	Kind string
	Name string
}

func (err *InvalidProjectError) Error() string {
	return fmt.Sprintf("%s %q is not managed by the account manager", err.Kind, err.Name)
}

// IsInvalidProject returns true if the given error is an ownership violation.
func IsInvalidProject(err error) bool {
	var target *InvalidProjectError
	return errors.As(err, &target)
}

// InvalidRoleNameError is returned when a request names a role outside the
// fixed role vocabulary.
type InvalidRoleNameError struct {
	Role string
}

func (err *InvalidRoleNameError) Error() string {
	return fmt.Sprintf("invalid role name: %s", err.Role)
}

// IsInvalidRoleName returns true if the given error is a role name validation failure.
func IsInvalidRoleName(err error) bool {
	var target *InvalidRoleNameError
	return errors.As(err, &target)
}

// ValidationError is returned for malformed input to a public operation
// before any backend call is made.
type ValidationError struct {
	Msg string
}

func (err *ValidationError) Error() string {
	return err.Msg
}

// NewValidation creates a ValidationError.
func NewValidation(msg string, options ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(msg, options...)}
}

// IsValidation returns true if the given error is an input validation failure.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// ErrNoQuotasConfigured is returned when a quota bundle operation resolves an
// empty quota specification. An empty bundle would silently grant unlimited
// resources, so this is an error rather than a no-op.
var ErrNoQuotasConfigured = errors.New("no quotas configured")
