package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/internal/observe"
	"github.com/MrWong99/ishara/internal/translate"
	"github.com/MrWong99/ishara/internal/translog"
)

// errorBody is the JSON envelope of every failed request.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes the error envelope.
// Server-side failures are logged; the client sees a short message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		observe.Logger(r.Context()).Error("request failed", "path", r.URL.Path, "status", status, "error", err)
		switch {
		case errors.Is(err, translate.ErrRecognizer):
			msg = "recognition failed"
		case errors.Is(err, translog.ErrStorage):
			msg = "storage unavailable"
		default:
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Success: false, Error: msg})
}

// statusFor returns the HTTP status for err.
func statusFor(err error) int {
	var verr *translate.ValidationError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &verr), errors.Is(err, translate.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, translate.ErrRecognizer):
		return http.StatusBadGateway
	case errors.Is(err, gesture.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON request body into v. Unknown fields are ignored.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &translate.ValidationError{Field: "body", Reason: "must not be empty"}
		}
		return &translate.ValidationError{Field: "body", Reason: "malformed JSON", Err: err}
	}
	return nil
}

// decodeBase64 decodes a base64 payload. A data URL prefix such as
// "data:image/jpeg;base64," is stripped first.
func decodeBase64(field, s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if _, rest, ok := strings.Cut(s, ","); ok {
			s = rest
		}
	}
	if s == "" {
		return nil, &translate.ValidationError{Field: field, Reason: "must not be empty"}
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, &translate.ValidationError{Field: field, Reason: fmt.Sprintf("invalid base64: %v", err), Err: err}
	}
	return b, nil
}
