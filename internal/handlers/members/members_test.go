package members

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/pkg/auth"
)

func NewMock(t *testing.T) (*MemberHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	return New(service), service
}

func asMember(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, 1))
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestSubscribeHandler(t *testing.T) {
	sub := `{"endpoint":"https://push.example.com/abc","keys":{"p256dh":"x","auth":"y"}}`

	tests := []struct {
		name         string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Saved as sent",
			body: sub,
			prepareMock: func(service *MockService) {
				service.EXPECT().Subscribe(gomock.Any(), 1, []byte(sub)).Return(nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Not a subscription",
			body: `{"foo":1}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Subscribe(gomock.Any(), 1, gomock.Any()).
					Return(domain.ValidationError("subscription must be a push subscription object"))
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			w := httptest.NewRecorder()
			handler.Subscribe(w, asMember(httptest.NewRequest(http.MethodPost, "/api/subscribe", bytes.NewBufferString(tt.body))))

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestProfileHandler(t *testing.T) {
	t.Run("Profile with active loan", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().Profile(gomock.Any(), 1).Return(&domain.Profile{
			User: &domain.User{ID: 1, Name: "Siti Aminah", Balance: decimal.NewFromInt(150000), IDCardPhoto: "data:image/jpeg;base64,AAA"},
			Loan: &domain.Loan{ID: 5, Status: domain.LoanApproved},
			History: []domain.HistoryItem{
				{Kind: "purchase", Amount: decimal.NewFromInt(50000), Direction: "out", At: time.Now()},
			},
		}, nil)

		w := httptest.NewRecorder()
		handler.Profile(w, asMember(httptest.NewRequest(http.MethodGet, "/api/profile", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		var body dto.ProfileDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Siti Aminah", body.User.Name)
		assert.Empty(t, body.User.IDCardPhoto)
		require.NotNil(t, body.Loan)
		assert.Equal(t, 5, body.Loan.ID)
		assert.Len(t, body.History, 1)
	})

	t.Run("User gone", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().Profile(gomock.Any(), 1).Return(nil, domain.ErrNotFound)

		w := httptest.NewRecorder()
		handler.Profile(w, asMember(httptest.NewRequest(http.MethodGet, "/api/profile", nil)))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSetStatusHandler(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Verified",
			id:   "12",
			body: `{"status":"verified"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().SetVerification(gomock.Any(), 12, domain.VerificationVerified).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Unknown user",
			id:   "12",
			body: `{"status":"rejected"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().SetVerification(gomock.Any(), 12, domain.VerificationRejected).Return(domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Unknown status",
			id:           "12",
			body:         `{"status":"banned"}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Bad id",
			id:           "0",
			body:         `{"status":"verified"}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := withID(httptest.NewRequest(http.MethodPut, "/api/admin/users/"+tt.id+"/status", bytes.NewBufferString(tt.body)), tt.id)
			w := httptest.NewRecorder()

			handler.SetStatus(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestDetailHandler(t *testing.T) {
	t.Run("Detail carries the id card photo", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().Detail(gomock.Any(), 12).Return(&domain.MemberDetail{
			User:       &domain.User{ID: 12, IDCardPhoto: "data:image/jpeg;base64,AAA"},
			Loan:       &domain.Loan{ID: 5},
			Repayments: []domain.Repayment{{ID: 1, LoanID: 5, InstallmentIndex: 1}},
		}, nil)

		w := httptest.NewRecorder()
		handler.Detail(w, withID(httptest.NewRequest(http.MethodGet, "/api/admin/users/12", nil), "12"))

		assert.Equal(t, http.StatusOK, w.Code)
		var body dto.MemberDetailDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "data:image/jpeg;base64,AAA", body.User.IDCardPhoto)
		assert.Len(t, body.Repayments, 1)
	})

	t.Run("Unknown member", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().Detail(gomock.Any(), 9999).Return(nil, fmt.Errorf("user 9999: %w", domain.ErrNotFound))

		w := httptest.NewRecorder()
		handler.Detail(w, withID(httptest.NewRequest(http.MethodGet, "/api/admin/users/9999", nil), "9999"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Internal server error", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().Detail(gomock.Any(), 12).Return(nil, errors.New("db error"))

		w := httptest.NewRecorder()
		handler.Detail(w, withID(httptest.NewRequest(http.MethodGet, "/api/admin/users/12", nil), "12"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestListPendingHandler(t *testing.T) {
	handler, service := NewMock(t)
	service.EXPECT().ListPending(gomock.Any()).Return([]domain.User{}, nil)

	w := httptest.NewRecorder()
	handler.ListPending(w, httptest.NewRequest(http.MethodGet, "/api/admin/users/pending", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
