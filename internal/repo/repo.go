package repo

import (
	"github.com/GlebRadaev/bumdes/internal/pg"
	journalrepo "github.com/GlebRadaev/bumdes/internal/repo/journal-repo"
	loanrepo "github.com/GlebRadaev/bumdes/internal/repo/loan-repo"
	orderrepo "github.com/GlebRadaev/bumdes/internal/repo/order-repo"
	productrepo "github.com/GlebRadaev/bumdes/internal/repo/product-repo"
	savingsrepo "github.com/GlebRadaev/bumdes/internal/repo/savings-repo"
	userrepo "github.com/GlebRadaev/bumdes/internal/repo/user-repo"
)

// Repositories share one connection; statements join the transaction that
// TxManager keeps in the context.
type Repositories struct {
	UserRepo    *userrepo.Repository
	ProductRepo *productrepo.Repository
	OrderRepo   *orderrepo.Repository
	LoanRepo    *loanrepo.Repository
	SavingsRepo *savingsrepo.Repository
	JournalRepo *journalrepo.Repository
	TxManager   pg.TXManager
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:    userrepo.New(conn),
		ProductRepo: productrepo.New(conn),
		OrderRepo:   orderrepo.New(conn),
		LoanRepo:    loanrepo.New(conn),
		SavingsRepo: savingsrepo.New(conn),
		JournalRepo: journalrepo.New(conn, txManager),
		TxManager:   txManager,
	}
}
