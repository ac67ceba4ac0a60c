// Package httpx provides HTTP response utilities.
package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/odyssey-erp/admin-console/internal/backend"
)

// ErrNoSession is returned by JSON endpoints reached without a browser
// session in the request context.
var ErrNoSession = errors.New("no browser session")

// RespondError maps backend and request errors to RFC7807 responses.
func RespondError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, backend.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, backend.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, context.DeadlineExceeded):
		Problem(w, http.StatusGatewayTimeout, "Timeout", "the session is still being restored")
	case errors.As(err, &apiErr):
		Problem(w, http.StatusBadGateway, "Backend Error", apiErr.Detail)
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
