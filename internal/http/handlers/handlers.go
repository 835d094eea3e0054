// Package handlers contains the helpers shared by the per-entity handler
// packages below it.
//
// Each entity package follows the same closure/factory pattern: a
// function receives its dependencies once at startup and returns the
// http.HandlerFunc the router calls on every request.
//
//	mux.HandleFunc("GET /challenges/{id}", challenge.GetByID(svc, log))
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sorting-waste-app/services/internal/apperr"
	"github.com/sorting-waste-app/services/internal/http/middleware"
	"github.com/sorting-waste-app/services/internal/utils/response"
)

// maxBodyBytes bounds request bodies; every payload here is a handful
// of short strings.
const maxBodyBytes = 1 << 20

// Handle registers h for method on path with and without a trailing
// slash, so "/users" and "/users/" reach the same handler.
func Handle(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	mux.HandleFunc(method+" "+path, h)
	mux.HandleFunc(method+" "+path+"/{$}", h)
}

// Decode reads a JSON body into dst. An empty or undecodable body, or
// one with anything but whitespace after the first value, is a malformed
// ValidationError; field rules are checked later by the service.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return apperr.NewMalformed("request body is empty")
	}
	if err != nil {
		return apperr.NewMalformed("malformed request body: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.NewMalformed("request body must contain a single JSON value")
	}
	return nil
}

// Fail writes err with a logger scoped to the request id.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	response.WriteError(w, log.With(
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFrom(r.Context())),
	), err)
}

// OK writes v with status 200.
func OK(w http.ResponseWriter, v any) {
	_ = response.WriteJSON(w, http.StatusOK, v)
}

// Created writes v with status 201 and a Location header.
func Created(w http.ResponseWriter, location string, v any) {
	w.Header().Set("Location", location)
	_ = response.WriteJSON(w, http.StatusCreated, v)
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
