package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "cashback-backend/internal/common/errors"
)

type errorPayload struct {
	Error *apperrors.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError serializes the structured application error with its mapped
// status code. Foreign errors surface as a generic internal error so driver
// details never leak to the caller.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal("internal error", nil)
	}
	writeJSON(w, apperrors.HTTPStatus(appErr), errorPayload{Error: appErr})
}
