package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewAPIError_MapsHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusBadRequest, ValidationError},
		{http.StatusUnprocessableEntity, ValidationError},
		{http.StatusUnauthorized, AuthError},
		{http.StatusForbidden, UnauthorizedError},
		{http.StatusNotFound, NotFoundError},
		{http.StatusConflict, ConflictError},
		{http.StatusInternalServerError, ExternalServiceError},
	}
	for _, tt := range tests {
		err := NewAPIError(tt.status, tt.status, "boom")
		if err.Type != tt.want {
			t.Errorf("status %d: Type = %v, want %v", tt.status, err.Type, tt.want)
		}
		if err.HTTPStatus != tt.status {
			t.Errorf("status %d: HTTPStatus = %d", tt.status, err.HTTPStatus)
		}
	}
}

func TestNewAPIError_FallsBackToEnvelopeCode(t *testing.T) {
	err := NewAPIError(http.StatusOK, http.StatusNotFound, "")
	if err.Type != NotFoundError {
		t.Errorf("Type = %v, want NotFoundError", err.Type)
	}
	if err.Message != "Not Found" {
		t.Errorf("Message = %q, want status text", err.Message)
	}
}

func TestExternalServiceError_StatusCode(t *testing.T) {
	err := NewAPIError(http.StatusServiceUnavailable, 0, "down")
	if got := err.StatusCode(); got != http.StatusServiceUnavailable {
		t.Errorf("StatusCode() = %d, want %d", got, http.StatusServiceUnavailable)
	}
	if got := NewExternalServiceError("odd", nil).StatusCode(); got != http.StatusBadGateway {
		t.Errorf("StatusCode() = %d, want %d", got, http.StatusBadGateway)
	}
}

func TestHelpers_SeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("listing users: %w", NewAuthError("token expired", nil))
	if !IsAuthError(err) {
		t.Error("IsAuthError should see a wrapped AuthError")
	}
	if IsNotFound(err) {
		t.Error("IsNotFound should be false for an AuthError")
	}
	appErr, ok := FromError(err)
	if !ok || appErr.Message != "token expired" {
		t.Errorf("FromError = %v, %v", appErr, ok)
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewTransportError("request failed", cause)
	if err.Error() != "request failed: dial tcp: refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestToResponse_PrefersEnvelopeCode(t *testing.T) {
	resp := NewAPIError(http.StatusBadRequest, 40012, "lab is full").ToResponse()
	if resp.Code != 40012 || resp.Message != "lab is full" {
		t.Errorf("ToResponse() = %+v", resp)
	}
	resp = NewNotFoundError("missing", nil).ToResponse()
	if resp.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want %d", resp.Code, http.StatusNotFound)
	}
}
