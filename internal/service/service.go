package service

import (
	"time"

	"github.com/GlebRadaev/bumdes/internal/handlers/admin"
	"github.com/GlebRadaev/bumdes/internal/handlers/auth"
	"github.com/GlebRadaev/bumdes/internal/handlers/loans"
	"github.com/GlebRadaev/bumdes/internal/handlers/members"
	"github.com/GlebRadaev/bumdes/internal/handlers/orders"
	"github.com/GlebRadaev/bumdes/internal/handlers/payments"
	"github.com/GlebRadaev/bumdes/internal/handlers/products"
	"github.com/GlebRadaev/bumdes/internal/handlers/savings"
	"github.com/GlebRadaev/bumdes/internal/notify"
	"github.com/GlebRadaev/bumdes/internal/repo"
	"github.com/GlebRadaev/bumdes/internal/service/adminservice"
	"github.com/GlebRadaev/bumdes/internal/service/authservice"
	"github.com/GlebRadaev/bumdes/internal/service/loanservice"
	"github.com/GlebRadaev/bumdes/internal/service/memberservice"
	"github.com/GlebRadaev/bumdes/internal/service/orderservice"
	"github.com/GlebRadaev/bumdes/internal/service/paymentservice"
	"github.com/GlebRadaev/bumdes/internal/service/productservice"
	"github.com/GlebRadaev/bumdes/internal/service/savingsservice"
	pkgauth "github.com/GlebRadaev/bumdes/pkg/auth"
	"github.com/GlebRadaev/bumdes/pkg/clients"
)

// Deps are the collaborators services need besides the repositories.
type Deps struct {
	Hash      pkgauth.HashServiceInterface
	JWT       pkgauth.JWTServiceInterface
	TokenTTL  time.Duration
	Notifier  notify.Notifier
	Snap      clients.SnapClientI
	ServerKey string
}

type Services struct {
	AuthService    auth.Service
	ProductService products.Service
	OrderService   orders.Service
	LoanService    loans.Service
	SavingsService savings.Service
	PaymentService payments.Service
	MemberService  members.Service
	AdminService   admin.Service
}

func New(r *repo.Repositories, deps Deps) *Services {
	return &Services{
		AuthService:    authservice.New(r.UserRepo, deps.Hash, deps.JWT, deps.TokenTTL),
		ProductService: productservice.New(r.ProductRepo),
		OrderService:   orderservice.New(r.OrderRepo, r.ProductRepo, r.UserRepo, r.JournalRepo, r.TxManager),
		LoanService:    loanservice.New(r.LoanRepo, r.UserRepo, r.JournalRepo, r.TxManager, deps.Notifier),
		SavingsService: savingsservice.New(r.SavingsRepo, r.UserRepo, r.JournalRepo, r.TxManager, deps.Notifier),
		PaymentService: paymentservice.New(r.SavingsRepo, r.UserRepo, r.JournalRepo, r.TxManager, deps.Snap, deps.ServerKey),
		MemberService:  memberservice.New(r.UserRepo, r.LoanRepo, deps.Notifier),
		AdminService:   adminservice.New(r.UserRepo, r.LoanRepo, r.OrderRepo, r.SavingsRepo, r.JournalRepo),
	}
}
