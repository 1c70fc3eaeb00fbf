package beer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrAuthenticationFailure = errors.New("authentication failure")
	ErrNotFound              = errors.New("beer not found")
	ErrRemote                = errors.New("remote error")
	ErrDecodeFailure         = errors.New("decode failure")
	ErrProtocolViolation     = errors.New("protocol violation")
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrRootURLRequired      = errors.New("root URL is required")
	ErrTokenURLRequired     = errors.New("token URL is required for client credentials")
	ErrBeerRequired         = errors.New("beer is required")
	ErrBeerIDRequired       = errors.New("beer ID is required")
	ErrNegativePrice        = errors.New("price must not be negative")
	ErrMissingLocation      = errors.New("response has no Location header")
	ErrEmptyAccessToken     = errors.New("access token is empty")
	ErrUnknownRegistration  = errors.New("unknown client registration")
	ErrNoMoreItems          = errors.New("no more items")
	ErrUnsupportedOperation = errors.New("unsupported operation type")
)

// AuthenticationError reports a failed client-credentials exchange.
type AuthenticationError struct {
	RegistrationID string
	// StatusCode is the authorization server's HTTP status, or 0 when the
	// exchange failed before a response was received.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed for registration %q (status %d): %v", e.RegistrationID, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("authentication failed for registration %q: %v", e.RegistrationID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is matches ErrAuthenticationFailure.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthenticationFailure
}

// NotFoundError reports a 404 for a specific beer.
type NotFoundError struct {
	ID uuid.UUID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("beer %s not found", e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RemoteError reports any other non-2xx response from the resource API.
type RemoteError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("remote error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("remote error: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), string(e.Body))
}

// Is matches ErrRemote.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// DecodeError reports a response body that does not match the expected shape.
type DecodeError struct {
	Target string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Target, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches ErrDecodeFailure.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeFailure
}

// ProtocolError reports a response missing a structural element the
// protocol requires, such as the Location header on create.
type ProtocolError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Is matches ErrProtocolViolation.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocolViolation
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthenticationFailure checks if the error comes from a failed token exchange.
func IsAuthenticationFailure(err error) bool {
	return errors.Is(err, ErrAuthenticationFailure)
}

// IsUnauthorized checks if the resource API rejected the presented token.
func IsUnauthorized(err error) bool {
	remoteErr := &RemoteError{}
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the resource API refused the request.
func IsForbidden(err error) bool {
	remoteErr := &RemoteError{}
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode == http.StatusForbidden
	}

	return false
}

// StatusCode extracts the HTTP status from a RemoteError, or 0.
func StatusCode(err error) int {
	remoteErr := &RemoteError{}
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode
	}

	return 0
}
