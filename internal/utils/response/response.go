// Package response writes the JSON bodies shared by every handler.
//
// Success responses carry the entity (or list) itself. Error responses
// always use the Response envelope:
//
//	{ "status": "error", "error": "field age is required", "fields": [...] }
//
// WriteError is the single place where the apperr taxonomy is turned
// into HTTP status codes.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sorting-waste-app/services/internal/apperr"
)

// Response is the error envelope. Fields is set only for validation
// failures.
type Response struct {
	Status string              `json:"status"`
	Error  string              `json:"error,omitempty"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON sets the content type and status, then encodes data.
// Headers must be set before it is called.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps err into the envelope.
func GeneralError(err error) Response {
	return Response{Status: StatusError, Error: err.Error()}
}

// ValidationError renders a validation failure with its field list.
func ValidationError(err *apperr.ValidationError) Response {
	return Response{Status: StatusError, Error: err.Error(), Fields: err.Fields}
}

// StatusCode maps err onto the HTTP status it is reported with.
func StatusCode(err error) int {
	var (
		verr *apperr.ValidationError
		nerr *apperr.NotFoundError
		cerr *apperr.ConflictError
		aerr *apperr.AuthError
	)
	switch {
	case errors.As(err, &verr):
		if verr.Malformed() {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	case errors.As(err, &nerr):
		return http.StatusNotFound
	case errors.As(err, &cerr):
		return http.StatusConflict
	case errors.As(err, &aerr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError reports err to the client. Errors outside the taxonomy are
// logged with their detail and answered with a generic 500 body.
func WriteError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := StatusCode(err)

	var verr *apperr.ValidationError
	switch {
	case status == http.StatusInternalServerError:
		log.Error("request failed", slog.String("error", err.Error()))
		_ = WriteJSON(w, status, GeneralError(errors.New(http.StatusText(status))))
	case errors.As(err, &verr):
		_ = WriteJSON(w, status, ValidationError(verr))
	default:
		_ = WriteJSON(w, status, GeneralError(err))
	}
}
