// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/itemsapi/pkg/database"
	"github.com/ghuser/itemsapi/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemsapi/pkg/validator"
	itemdomain "github.com/ghuser/itemsapi/services/item/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is/As so wrapped errors are matched correctly.
// Storage failures answer 500 with the underlying database message.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, message(err, status))
}

// mapErrorToStatus treats *database.StorageError and anything unrecognized as 500.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrNameRequired):
		return http.StatusBadRequest // 400
	case errors.Is(err, pkgvalidator.ErrMalformedBody):
		return http.StatusBadRequest // 400
	case errors.Is(err, pkgvalidator.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge // 413
	default:
		return http.StatusInternalServerError // 500
	}
}

// message picks the client-facing text: the bare sentinel for client errors,
// the cause for storage errors, err.Error() otherwise.
func message(err error, status int) string {
	var se *database.StorageError
	switch {
	case errors.Is(err, itemdomain.ErrNameRequired):
		return itemdomain.ErrNameRequired.Error()
	case errors.Is(err, pkgvalidator.ErrMalformedBody):
		return pkgvalidator.ErrMalformedBody.Error()
	case status == http.StatusRequestEntityTooLarge:
		return pkgvalidator.ErrBodyTooLarge.Error()
	case errors.As(err, &se):
		return se.Error()
	default:
		return err.Error()
	}
}
