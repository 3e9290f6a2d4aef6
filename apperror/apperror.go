// Package apperror defines a centralized system for application-specific errors.
// Every layer of labconsole (API client, session store, console handlers, CLI)
// reports failures as an *AppError so callers can branch on the error category
// with errors.As instead of inspecting messages.
package apperror

import (
	"errors"
	"fmt"
	// `net/http` is used for HTTP status codes.
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for different categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// ConfigError represents an error related to application configuration
	ConfigError
	// TransportError represents a network failure or timeout talking to the API
	TransportError
	// AuthError represents an authentication rejection (HTTP 401, missing or invalid token)
	AuthError
	// UnauthorizedError represents an authorization error (HTTP 403, insufficient permissions)
	UnauthorizedError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error
	ValidationError
	// BadRequestError represents a generic bad request
	BadRequestError
	// InternalError represents a generic internal error
	InternalError
	// ExternalServiceError represents a business error reported by the API envelope
	ExternalServiceError
	// StorageError represents a failure reading or writing persisted session state
	StorageError
	// ConflictError represents a conflict, e.g., resource already exists
	ConflictError
)

// String returns a short label used in log fields.
func (t ErrorType) String() string {
	switch t {
	case ConfigError:
		return "config"
	case TransportError:
		return "transport"
	case AuthError:
		return "auth"
	case UnauthorizedError:
		return "forbidden"
	case NotFoundError:
		return "not_found"
	case ValidationError:
		return "validation"
	case BadRequestError:
		return "bad_request"
	case InternalError:
		return "internal"
	case ExternalServiceError:
		return "external"
	case StorageError:
		return "storage"
	case ConflictError:
		return "conflict"
	default:
		return "unknown"
	}
}

// AppError is a custom error type for the application.
// It allows wrapping an underlying error (`Err`) for more detailed debugging.
// HTTPStatus and Code are filled in when the error was decoded from an API
// response: HTTPStatus is the response status, Code the envelope's `code`.
type AppError struct {
	Type       ErrorType
	Message    string
	Err        error // Underlying error
	HTTPStatus int
	Code       int
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so `errors.Is` and `errors.As` can
// inspect the chain of wrapped errors.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code the console uses when it renders the error.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ConfigError:
		return http.StatusInternalServerError
	case TransportError:
		return http.StatusGatewayTimeout
	case AuthError:
		return http.StatusUnauthorized
	case UnauthorizedError:
		// 403: the token is valid but the role is not allowed to do this.
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	case ExternalServiceError:
		if e.HTTPStatus >= http.StatusBadRequest {
			return e.HTTPStatus
		}
		return http.StatusBadGateway
	case StorageError:
		return http.StatusInternalServerError
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is a generic constructor.
// It's useful when the error type is determined dynamically.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewAPIError creates an error decoded from an API response. The type is
// derived from the HTTP status, falling back to the envelope code when the
// server answered 2xx with a failing envelope.
func NewAPIError(httpStatus, code int, message string) *AppError {
	status := httpStatus
	if status < http.StatusBadRequest {
		status = code
	}
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "request failed"
	}

	var errType ErrorType
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		errType = ValidationError
	case http.StatusUnauthorized:
		errType = AuthError
	case http.StatusForbidden:
		errType = UnauthorizedError
	case http.StatusNotFound:
		errType = NotFoundError
	case http.StatusConflict:
		errType = ConflictError
	default:
		errType = ExternalServiceError
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		HTTPStatus: httpStatus,
		Code:       code,
	}
}

// Constructor functions for specific error types.

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewTransportError creates a new TransportError
func NewTransportError(message string, underlyingError error) *AppError {
	return NewAppError(TransportError, message, underlyingError)
}

// NewAuthError creates a new AuthError (for authentication issues)
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewUnauthorizedError creates a new UnauthorizedError (for authorization issues)
func NewUnauthorizedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthorizedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(message string, underlyingError error) *AppError {
	return NewAppError(ExternalServiceError, message, underlyingError)
}

// NewStorageError creates a new StorageError
func NewStorageError(message string, underlyingError error) *AppError {
	return NewAppError(StorageError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// ErrorResponse represents the error payload the console writes to its clients.
// It mirrors the API's envelope so console consumers parse one shape.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for console responses.
// Only the user-facing `Message` is included, not the underlying `Err` details.
func (e *AppError) ToResponse() ErrorResponse {
	code := e.Code
	if code == 0 {
		code = e.StatusCode()
	}
	return ErrorResponse{Code: code, Message: e.Message}
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper functions to check error types.

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return isType(err, NotFoundError)
}

// IsAuthError checks if an error is an AuthError (authentication problem)
func IsAuthError(err error) bool {
	return isType(err, AuthError)
}

// IsUnauthorizedError checks if an error is an UnauthorizedError (authorization problem)
func IsUnauthorizedError(err error) bool {
	return isType(err, UnauthorizedError)
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	return isType(err, ValidationError)
}

// IsTransportError checks if an error is a Transport error
func IsTransportError(err error) bool {
	return isType(err, TransportError)
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	return isType(err, ConflictError)
}
