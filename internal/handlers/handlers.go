package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/bumdes/docs"
	"github.com/GlebRadaev/bumdes/internal/domain"
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

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type ProductHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	Checkout(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	GetLines(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type LoanHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	GetLoans(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type SavingsHandler interface {
	Withdraw(w http.ResponseWriter, r *http.Request)
	GetSavings(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListPendingWithdrawals(w http.ResponseWriter, r *http.Request)
	ProcessWithdrawal(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	CreatePayment(w http.ResponseWriter, r *http.Request)
	Webhook(w http.ResponseWriter, r *http.Request)
}

type MemberHandler interface {
	Subscribe(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	ListMembers(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Detail(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	CashReport(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	ProductHandler ProductHandler
	OrderHandler   OrderHandler
	LoanHandler    LoanHandler
	SavingsHandler SavingsHandler
	PaymentHandler PaymentHandler
	MemberHandler  MemberHandler
	AdminHandler   AdminHandler

	jwtService auth.JWTServiceInterface
}

func New(s *service.Services, jwtService auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		ProductHandler: producthandlers.New(s.ProductService),
		OrderHandler:   orderhandlers.New(s.OrderService),
		LoanHandler:    loanhandlers.New(s.LoanService),
		SavingsHandler: savingshandlers.New(s.SavingsService),
		PaymentHandler: paymenthandlers.New(s.PaymentService),
		MemberHandler:  memberhandlers.New(s.MemberService),
		AdminHandler:   adminhandlers.New(s.AdminService),
		jwtService:     jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)
		r.Get("/products", h.ProductHandler.List)
		r.Post("/payments/midtrans/webhook", h.PaymentHandler.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(h.jwtService))

			r.Post("/subscribe", h.MemberHandler.Subscribe)
			r.Get("/profile", h.MemberHandler.Profile)
			r.Get("/transactions/history", h.MemberHandler.History)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/checkout", h.OrderHandler.Checkout)
				r.Get("/my", h.OrderHandler.GetOrders)
			})
			r.Route("/loans", func(r chi.Router) {
				r.Post("/apply", h.LoanHandler.Apply)
				r.Get("/my", h.LoanHandler.GetLoans)
				r.Post("/pay", h.LoanHandler.Pay)
			})
			r.Route("/savings", func(r chi.Router) {
				r.Post("/withdraw", h.SavingsHandler.Withdraw)
				r.Get("/my", h.SavingsHandler.GetSavings)
			})
			r.Post("/payments/midtrans", h.PaymentHandler.CreatePayment)

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(string(domain.RoleAdmin)))

				r.Get("/stats", h.AdminHandler.Stats)
				r.Get("/cash-report", h.AdminHandler.CashReport)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", h.MemberHandler.ListMembers)
					r.Get("/pending", h.MemberHandler.ListPending)
					r.Get("/{id}", h.MemberHandler.Detail)
					r.Put("/{id}/status", h.MemberHandler.SetStatus)
				})
				r.Route("/products", func(r chi.Router) {
					r.Post("/", h.ProductHandler.Create)
					r.Put("/{id}", h.ProductHandler.Update)
					r.Delete("/{id}", h.ProductHandler.Delete)
				})
				r.Route("/orders", func(r chi.Router) {
					r.Get("/", h.OrderHandler.ListAll)
					r.Get("/{id}", h.OrderHandler.GetLines)
					r.Put("/{id}/status", h.OrderHandler.UpdateStatus)
				})
				r.Route("/loans", func(r chi.Router) {
					r.Get("/", h.LoanHandler.ListAll)
					r.Get("/pending", h.LoanHandler.ListPending)
					r.Put("/{id}/status", h.LoanHandler.Decide)
				})
				r.Get("/savings", h.SavingsHandler.ListAll)
				r.Route("/withdrawals", func(r chi.Router) {
					r.Get("/pending", h.SavingsHandler.ListPendingWithdrawals)
					r.Put("/{id}/status", h.SavingsHandler.ProcessWithdrawal)
				})
			})
		})
	})

	return r
}
