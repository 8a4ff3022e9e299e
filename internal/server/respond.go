package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/abhisek/mathmentor/internal/auth"
	"github.com/abhisek/mathmentor/internal/docstore"
	"github.com/abhisek/mathmentor/internal/mailer"
	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/session"
)

const maxBodyBytes = 1 << 20

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON request body into v. An empty body leaves v as is.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps a domain error to an HTTP status and a user-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, problemgen.ErrInvalidSelection),
		errors.Is(err, session.ErrEmptyAnswer),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, docstore.ErrInvalidPath):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()

	case errors.Is(err, docstore.ErrNotFound):
		return http.StatusNotFound, "not found"

	case errors.Is(err, session.ErrAlreadyAnswered),
		errors.Is(err, session.ErrNoProblem),
		errors.Is(err, session.ErrSuperseded),
		errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, err.Error()

	case errors.Is(err, session.ErrGenerationFailed):
		return http.StatusBadGateway, session.ErrGenerationFailed.Error()
	case errors.Is(err, session.ErrHintsFailed):
		return http.StatusBadGateway, session.ErrHintsFailed.Error()

	case errors.Is(err, mailer.ErrNotConfigured):
		return http.StatusServiceUnavailable, mailer.ErrNotConfigured.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// fail writes err as a JSON error, logging server-side failures.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", errorCause(err),
		)
	}
	Error(w, status, msg)
}

// errorCause unwraps a user-facing error to the failure behind it, so the
// log shows "anthropic: 529 overloaded" rather than "please try again".
func errorCause(err error) error {
	var c interface{ Cause() error }
	if errors.As(err, &c) && c.Cause() != nil {
		return c.Cause()
	}
	return err
}
