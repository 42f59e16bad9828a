package httpadapter

import (
	"net/http"

	"github.com/docqa-dev/docqa/internal/core/domain"
)

// mapErrorToHTTPStatus translates domain error kinds into response codes.
// ErrNotReady maps to 409: the request is well-formed but the system has
// no indexed documents yet, a client-side sequencing problem rather than
// a server fault.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput),
		domain.IsKind(err, domain.ErrUnsupportedFormat),
		domain.IsKind(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrNotReady):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
