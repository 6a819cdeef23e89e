package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	adminhandlers "github.com/GlebRadaev/bumdes/internal/handlers/admin"
	authhandlers "github.com/GlebRadaev/bumdes/internal/handlers/auth"
	loanhandlers "github.com/GlebRadaev/bumdes/internal/handlers/loans"
	memberhandlers "github.com/GlebRadaev/bumdes/internal/handlers/members"
	orderhandlers "github.com/GlebRadaev/bumdes/internal/handlers/orders"
	paymenthandlers "github.com/GlebRadaev/bumdes/internal/handlers/payments"
	producthandlers "github.com/GlebRadaev/bumdes/internal/handlers/products"
	savingshandlers "github.com/GlebRadaev/bumdes/internal/handlers/savings"
	"github.com/GlebRadaev/bumdes/internal/service"
	"github.com/GlebRadaev/bumdes/pkg/auth"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)

	services := &service.Services{
		AuthService:    authhandlers.NewMockService(ctrl),
		ProductService: producthandlers.NewMockService(ctrl),
		OrderService:   orderhandlers.NewMockService(ctrl),
		LoanService:    loanhandlers.NewMockService(ctrl),
		SavingsService: savingshandlers.NewMockService(ctrl),
		PaymentService: paymenthandlers.NewMockService(ctrl),
		MemberService:  memberhandlers.NewMockService(ctrl),
		AdminService:   adminhandlers.NewMockService(ctrl),
	}

	h := New(services, auth.NewMockJWTServiceInterface(ctrl))
	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.PaymentHandler)
	assert.NotNil(t, h.AdminHandler)
}

func newRouter(t *testing.T) http.Handler {
	ctrl := gomock.NewController(t)

	authH := NewMockAuthHandler(ctrl)
	productH := NewMockProductHandler(ctrl)
	orderH := NewMockOrderHandler(ctrl)
	loanH := NewMockLoanHandler(ctrl)
	savingsH := NewMockSavingsHandler(ctrl)
	paymentH := NewMockPaymentHandler(ctrl)
	memberH := NewMockMemberHandler(ctrl)
	adminH := NewMockAdminHandler(ctrl)

	authH.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	authH.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	productH.EXPECT().List(gomock.Any(), gomock.Any()).AnyTimes()
	productH.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes()
	productH.EXPECT().Update(gomock.Any(), gomock.Any()).AnyTimes()
	productH.EXPECT().Delete(gomock.Any(), gomock.Any()).AnyTimes()
	orderH.EXPECT().Checkout(gomock.Any(), gomock.Any()).AnyTimes()
	orderH.EXPECT().GetOrders(gomock.Any(), gomock.Any()).AnyTimes()
	orderH.EXPECT().ListAll(gomock.Any(), gomock.Any()).AnyTimes()
	orderH.EXPECT().GetLines(gomock.Any(), gomock.Any()).AnyTimes()
	orderH.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).AnyTimes()
	loanH.EXPECT().Apply(gomock.Any(), gomock.Any()).AnyTimes()
	loanH.EXPECT().GetLoans(gomock.Any(), gomock.Any()).AnyTimes()
	loanH.EXPECT().Pay(gomock.Any(), gomock.Any()).AnyTimes()
	loanH.EXPECT().ListAll(gomock.Any(), gomock.Any()).AnyTimes()
	loanH.EXPECT().ListPending(gomock.Any(), gomock.Any()).AnyTimes()
	loanH.EXPECT().Decide(gomock.Any(), gomock.Any()).AnyTimes()
	savingsH.EXPECT().Withdraw(gomock.Any(), gomock.Any()).AnyTimes()
	savingsH.EXPECT().GetSavings(gomock.Any(), gomock.Any()).AnyTimes()
	savingsH.EXPECT().ListAll(gomock.Any(), gomock.Any()).AnyTimes()
	savingsH.EXPECT().ListPendingWithdrawals(gomock.Any(), gomock.Any()).AnyTimes()
	savingsH.EXPECT().ProcessWithdrawal(gomock.Any(), gomock.Any()).AnyTimes()
	paymentH.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).AnyTimes()
	paymentH.EXPECT().Webhook(gomock.Any(), gomock.Any()).AnyTimes()
	memberH.EXPECT().Subscribe(gomock.Any(), gomock.Any()).AnyTimes()
	memberH.EXPECT().Profile(gomock.Any(), gomock.Any()).AnyTimes()
	memberH.EXPECT().History(gomock.Any(), gomock.Any()).AnyTimes()
	memberH.EXPECT().ListMembers(gomock.Any(), gomock.Any()).AnyTimes()
	memberH.EXPECT().ListPending(gomock.Any(), gomock.Any()).AnyTimes()
	memberH.EXPECT().SetStatus(gomock.Any(), gomock.Any()).AnyTimes()
	memberH.EXPECT().Detail(gomock.Any(), gomock.Any()).AnyTimes()
	adminH.EXPECT().Stats(gomock.Any(), gomock.Any()).AnyTimes()
	adminH.EXPECT().CashReport(gomock.Any(), gomock.Any()).AnyTimes()

	jwtService := auth.NewMockJWTServiceInterface(ctrl)
	jwtService.EXPECT().ValidateToken("member-token").Return(&auth.Claims{UserID: 1, Role: "member"}, nil).AnyTimes()
	jwtService.EXPECT().ValidateToken("admin-token").Return(&auth.Claims{UserID: 2, Role: "admin"}, nil).AnyTimes()
	jwtService.EXPECT().ValidateToken(gomock.Any()).Return(nil, auth.ErrInvalidToken).AnyTimes()

	h := &Handlers{
		AuthHandler:    authH,
		ProductHandler: productH,
		OrderHandler:   orderH,
		LoanHandler:    loanH,
		SavingsHandler: savingsH,
		PaymentHandler: paymentH,
		MemberHandler:  memberH,
		AdminHandler:   adminH,
		jwtService:     jwtService,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)
	return router
}

func TestInitRoutes(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		method string
		url    string
		token  string
		status int
	}{
		{"POST", "/api/register", "", http.StatusOK},
		{"POST", "/api/login", "", http.StatusOK},
		{"GET", "/api/products", "", http.StatusOK},
		{"POST", "/api/payments/midtrans/webhook", "", http.StatusOK},

		{"POST", "/api/orders/checkout", "", http.StatusUnauthorized},
		{"GET", "/api/orders/my", "bogus", http.StatusUnauthorized},
		{"POST", "/api/loans/pay", "", http.StatusUnauthorized},
		{"POST", "/api/savings/withdraw", "", http.StatusUnauthorized},
		{"POST", "/api/payments/midtrans", "", http.StatusUnauthorized},

		{"POST", "/api/subscribe", "member-token", http.StatusOK},
		{"GET", "/api/profile", "member-token", http.StatusOK},
		{"GET", "/api/transactions/history", "member-token", http.StatusOK},
		{"POST", "/api/orders/checkout", "member-token", http.StatusOK},
		{"GET", "/api/orders/my", "member-token", http.StatusOK},
		{"POST", "/api/loans/apply", "member-token", http.StatusOK},
		{"GET", "/api/loans/my", "member-token", http.StatusOK},
		{"POST", "/api/loans/pay", "member-token", http.StatusOK},
		{"POST", "/api/savings/withdraw", "member-token", http.StatusOK},
		{"GET", "/api/savings/my", "member-token", http.StatusOK},
		{"POST", "/api/payments/midtrans", "member-token", http.StatusOK},

		{"GET", "/api/admin/stats", "", http.StatusUnauthorized},
		{"GET", "/api/admin/stats", "member-token", http.StatusForbidden},
		{"PUT", "/api/admin/loans/5/status", "member-token", http.StatusForbidden},
		{"PUT", "/api/admin/withdrawals/8/status", "member-token", http.StatusForbidden},

		{"GET", "/api/admin/stats", "admin-token", http.StatusOK},
		{"GET", "/api/admin/cash-report", "admin-token", http.StatusOK},
		{"GET", "/api/admin/users", "admin-token", http.StatusOK},
		{"GET", "/api/admin/users/pending", "admin-token", http.StatusOK},
		{"GET", "/api/admin/users/12", "admin-token", http.StatusOK},
		{"PUT", "/api/admin/users/12/status", "admin-token", http.StatusOK},
		{"POST", "/api/admin/products", "admin-token", http.StatusOK},
		{"PUT", "/api/admin/products/3", "admin-token", http.StatusOK},
		{"DELETE", "/api/admin/products/3", "admin-token", http.StatusOK},
		{"GET", "/api/admin/orders", "admin-token", http.StatusOK},
		{"GET", "/api/admin/orders/10", "admin-token", http.StatusOK},
		{"PUT", "/api/admin/orders/10/status", "admin-token", http.StatusOK},
		{"GET", "/api/admin/loans", "admin-token", http.StatusOK},
		{"GET", "/api/admin/loans/pending", "admin-token", http.StatusOK},
		{"PUT", "/api/admin/loans/5/status", "admin-token", http.StatusOK},
		{"GET", "/api/admin/savings", "admin-token", http.StatusOK},
		{"GET", "/api/admin/withdrawals/pending", "admin-token", http.StatusOK},
		{"PUT", "/api/admin/withdrawals/8/status", "admin-token", http.StatusOK},

		{"DELETE", "/api/orders/my", "member-token", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url+" "+tt.token, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
