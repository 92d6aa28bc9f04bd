package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devconnector/devconnector-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

// errorItem is one entry of an {"errors": [...]} body.
type errorItem struct {
	Param string `json:"param,omitempty"`
	Msg   string `json:"msg"`
}

type errorsBody struct {
	Errors []errorItem `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func messageResponse(msg string) map[string]string {
	return map[string]string{"message": msg}
}

func errorsResponse(msg string) errorsBody {
	return errorsBody{Errors: []errorItem{{Msg: msg}}}
}

// decodeJSON reads a size-limited JSON body into dst. On failure it has
// already written the response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, messageResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, messageResponse("invalid request body"))
		return false
	}
	return true
}

// writeError maps a service error to its HTTP response. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		body := errorsBody{Errors: make([]errorItem, len(verr.Fields))}
		for i, f := range verr.Fields {
			body.Errors[i] = errorItem{Param: f.Param, Msg: f.Msg}
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, service.ErrDuplicateIdentity):
		writeJSON(w, http.StatusBadRequest, errorsResponse("User already exists."))
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorsResponse("Invalid username or password."))
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse("User not found."))
	case errors.Is(err, service.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse("There is no profile for this user."))
	case errors.Is(err, service.ErrSubRecordNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse("Profile entry not found."))
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse("Server Error."))
	}
}
