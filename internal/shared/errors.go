package shared

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/session"
)

var (
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage turns an error into text that can be shown in the UI.
func UserSafeMessage(err error) string {
	var verrs validator.ValidationErrors
	var apiErr *backend.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, session.ErrLoginSuperseded):
		return "You were signed out, please sign in again"
	case errors.As(err, &verrs):
		return "Please check the highlighted fields"
	case errors.Is(err, backend.ErrForbidden):
		return "You don't have permission to do that"
	case errors.Is(err, backend.ErrNotFound):
		return "The record no longer exists"
	case errors.As(err, &apiErr) && apiErr.Status == 400 && apiErr.Detail != "":
		return apiErr.Detail
	default:
		return "Something went wrong, please try again"
	}
}
