package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/charvault/internal/api/apierr"
)

// maxBodyBytes caps request bodies; every payload here is a handful of fields
const maxBodyBytes = 64 << 10

// errorWriter writes API errors and logs the ones the caller gets no detail about
type errorWriter struct {
	logger *slog.Logger
}

func (e errorWriter) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		e.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	apierr.WriteError(w, err)
}

// decodeJSON reads a JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return nil
}
