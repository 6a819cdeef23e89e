package handlerutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/pkg/auth"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{"Insufficient funds", domain.ErrInsufficientFunds, http.StatusBadRequest, "insufficient balance"},
		{"Out of stock names the product", &domain.OutOfStockError{ProductName: "Beras"}, http.StatusBadRequest, "stock of 'Beras' is not sufficient"},
		{"Loan not active", fmt.Errorf("loan 1 is paid_off: %w", domain.ErrLoanNotActive), http.StatusBadRequest, "loan 1 is paid_off: loan is not active"},
		{"Validation", domain.ValidationError("cart is empty"), http.StatusBadRequest, "validation failed: cart is empty"},
		{"Not found", fmt.Errorf("loan 9: %w", domain.ErrNotFound), http.StatusNotFound, "loan 9: not found"},
		{"Already decided", domain.ErrInvalidTransition, http.StatusConflict, "status already decided"},
		{"Retryable", fmt.Errorf("tx: %w", domain.ErrConflictRetryable), http.StatusConflict, "concurrent update, retry the request"},
		{"Internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := StatusOf(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMessage, msg)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type request struct {
		Status string `json:"status" validate:"required,oneof=approved rejected"`
	}

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantBody string
	}{
		{name: "Valid", body: `{"status":"approved"}`, wantOK: true},
		{name: "Malformed", body: `{"status":`, wantBody: "Invalid request body"},
		{name: "Fails validation", body: `{"status":"maybe"}`, wantBody: "status must be one of [approved rejected]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			var req request
			ok := DecodeJSON(w, r, &req)

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	router := chi.NewRouter()
	var got int
	router.Get("/loans/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := PathID(w, r, "id")
		if ok {
			got = id
			w.WriteHeader(http.StatusOK)
		}
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loans/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 42, got)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loans/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, 0, UserID(r))

	r = r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, 7))
	assert.Equal(t, 7, UserID(r))
}
