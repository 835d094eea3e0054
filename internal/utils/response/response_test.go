package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorting-waste-app/services/internal/apperr"
	"github.com/sorting-waste-app/services/internal/utils/response"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, response.WriteJSON(rec, http.StatusCreated, map[string]string{"id": "abc"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "field validation",
			err: &apperr.ValidationError{Fields: []apperr.FieldError{
				{Field: "age", Message: "field age is required"},
			}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"error","error":"field age is required","fields":[{"field":"age","message":"field age is required"}]}`,
		},
		{
			name:       "malformed body",
			err:        apperr.NewMalformed("request body is empty"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","error":"request body is empty"}`,
		},
		{
			name:       "not found",
			err:        &apperr.NotFoundError{Resource: "User", ID: "42"},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"status":"error","error":"User 42 not found"}`,
		},
		{
			name:       "wrapped conflict",
			err:        fmt.Errorf("create: %w", &apperr.ConflictError{Field: "email", Value: "a@x.com"}),
			wantStatus: http.StatusConflict,
			wantBody:   `{"status":"error","error":"create: email a@x.com already exists"}`,
		},
		{
			name:       "auth",
			err:        &apperr.AuthError{Reason: apperr.ReasonIncorrectPassword},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","error":"Incorrect password"}`,
		},
		{
			name:       "internal detail is hidden",
			err:        errors.New("dial tcp 10.0.0.1:27017: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"error","error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WriteError(rec, discard, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestGeneralError(t *testing.T) {
	out, err := json.Marshal(response.GeneralError(errors.New("boom")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","error":"boom"}`, string(out))
}
