package common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tendant/simple-access-slim/internal/httputil"
	"github.com/tendant/simple-access-slim/internal/observability"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// StatusFor maps a business error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicateKey, domain.KindAlreadyDeleted, domain.KindNotDeleted:
		return http.StatusConflict
	case domain.KindInvalid:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteError writes err as a JSON error response. Business errors carry their
// kind and field; everything else is logged and reported as an opaque 500.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httputil.ErrorWithCode(w, http.StatusRequestEntityTooLarge, "request body too large", "too_large", "")
		return
	}

	var de *domain.Error
	if errors.As(err, &de) {
		status := StatusFor(de.Kind)
		if status != http.StatusInternalServerError {
			observability.RecordRejection(de.Entity, string(de.Kind))
			httputil.ErrorWithCode(w, status, de.Error(), string(de.Kind), de.Field)
			return
		}
	}

	if logger != nil {
		logger.Error("request failed", "error", err)
	}
	httputil.Error(w, http.StatusInternalServerError, "internal error")
}
