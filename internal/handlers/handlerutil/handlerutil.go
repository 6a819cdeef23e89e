// Package handlerutil holds the request decoding and error mapping shared by
// the HTTP handlers.
package handlerutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/pkg/auth"
	"github.com/GlebRadaev/bumdes/pkg/utils"
	"github.com/GlebRadaev/bumdes/pkg/validate"
)

const maxBodyBytes = 1 << 20

// StatusOf maps a service error to the HTTP status and the message shown to
// the caller. Unknown errors never leak their text.
func StatusOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrLoanNotActive),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflictRetryable):
		return http.StatusConflict, domain.ErrConflictRetryable.Error()
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func RespondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := StatusOf(err)
	if code == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	utils.RespondWithError(w, code, msg)
}

// DecodeJSON reads the body into v and runs its validate tags. Any failure is
// already answered with 400 and false is returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// PathID parses a positive integer URL parameter, answering 400 otherwise.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func UserID(r *http.Request) int {
	id, _ := r.Context().Value(auth.UserIDKey).(int)
	return id
}
