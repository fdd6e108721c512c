package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/store"
)

var (
	errRouteNotFound    = cerrors.New(cerrors.ErrCodeNotFound, "no such route")
	errMethodNotAllowed = cerrors.New(cerrors.ErrCodeInvalidInput, "method not allowed")
	errEmptyBody        = cerrors.New(cerrors.ErrCodeInvalidInput, "request body is empty")
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    cerrors.Code `json:"code"`
	Message string       `json:"message"`
}

// codeOf maps err to an API error code. Errors that carry no code of their
// own are classified by their sentinel, falling back to INTERNAL_ERROR.
func codeOf(err error) cerrors.Code {
	if code := cerrors.GetCode(err); code != "" {
		return code
	}
	var rl *cerrors.RateLimitedError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return cerrors.ErrCodeNotFound
	case errors.As(err, &rl):
		return cerrors.ErrCodeRateLimited
	case errors.Is(err, context.DeadlineExceeded):
		return cerrors.ErrCodeTimeout
	default:
		return cerrors.ErrCodeInternal
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	code := codeOf(err)
	status := cerrors.HTTPStatus(code)
	if err == errMethodNotAllowed {
		status = http.StatusMethodNotAllowed
	}

	msg := cerrors.UserMessage(err)
	if code == cerrors.ErrCodeInternal {
		logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON object from the request body, limited to
// MaxBodyBytes. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.As(err, &tooLarge):
			return cerrors.New(cerrors.ErrCodeInvalidInput, "request body too large (max %d bytes)", MaxBodyBytes)
		default:
			return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "invalid request body")
		}
	}
	if dec.More() {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "request body must hold a single JSON object")
	}
	return nil
}
