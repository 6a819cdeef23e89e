package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type User struct {
	ID                 int                `db:"id"`
	NIK                string             `db:"nik"`
	Name               string             `db:"name"`
	Email              string             `db:"email"`
	PasswordHash       string             `db:"password_hash"`
	Address            string             `db:"address"`
	Phone              string             `db:"phone"`
	IDCardPhoto        string             `db:"id_card_photo"`
	Role               Role               `db:"role"`
	VerificationStatus VerificationStatus `db:"verification_status"`
	Balance            decimal.Decimal    `db:"balance"`
	CreatedAt          time.Time          `db:"created_at"`
}

type Product struct {
	ID          int             `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	Photo       string          `db:"photo"`
	CreatedAt   time.Time       `db:"created_at"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// CanMoveTo reports whether an order in status s may be moved to next.
// Completed and cancelled orders are final.
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderCompleted || next == OrderCancelled
	case OrderProcessing:
		return next == OrderCompleted || next == OrderCancelled
	default:
		return false
	}
}

type Order struct {
	ID          int             `db:"id"`
	UserID      int             `db:"user_id"`
	UserName    string          `db:"user_name"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	Status      OrderStatus     `db:"status"`
	Summary     string          `db:"summary"`
	CreatedAt   time.Time       `db:"created_at"`
	Lines       []OrderLine
}

type OrderLine struct {
	ID          int             `db:"id"`
	OrderID     int             `db:"order_id"`
	ProductID   int             `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Subtotal    decimal.Decimal `db:"subtotal"`
}

type CartItem struct {
	ProductID int
	Quantity  int
}

type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
	LoanPaidOff  LoanStatus = "paid_off"
)

type Loan struct {
	ID                int             `db:"id"`
	UserID            int             `db:"user_id"`
	UserName          string          `db:"user_name"`
	Principal         decimal.Decimal `db:"principal"`
	TermMonths        int             `db:"term_months"`
	InstallmentAmount decimal.Decimal `db:"installment_amount"`
	Purpose           string          `db:"purpose"`
	Status            LoanStatus      `db:"status"`
	AdminNote         string          `db:"admin_note"`
	AppliedAt         time.Time       `db:"applied_at"`
}

type Repayment struct {
	ID               int             `db:"id"`
	LoanID           int             `db:"loan_id"`
	UserID           int             `db:"user_id"`
	InstallmentIndex int             `db:"installment_index"`
	Amount           decimal.Decimal `db:"amount"`
	PaidAt           time.Time       `db:"paid_at"`
}

type SavingsType string

const (
	SavingsDeposit    SavingsType = "deposit"
	SavingsWithdrawal SavingsType = "withdrawal"
)

type SavingsStatus string

const (
	SavingsPending  SavingsStatus = "pending"
	SavingsApproved SavingsStatus = "approved"
	SavingsRejected SavingsStatus = "rejected"
)

type SavingsEntry struct {
	ID          int             `db:"id"`
	UserID      int             `db:"user_id"`
	UserName    string          `db:"user_name"`
	Type        SavingsType     `db:"type"`
	Status      SavingsStatus   `db:"status"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	ExternalRef *string         `db:"external_ref"`
	CreatedAt   time.Time       `db:"created_at"`
}

type JournalCategory string

const (
	JournalPurchase         JournalCategory = "purchase"
	JournalInstallment      JournalCategory = "installment"
	JournalCashWithdrawal   JournalCategory = "cash_withdrawal"
	JournalSavingsTopup     JournalCategory = "savings_topup"
	JournalLoanDisbursement JournalCategory = "loan_disbursement"
)

// JournalEntry is one append-only cash journal row.
// RunningBalance = previous.RunningBalance + Debit - Credit.
type JournalEntry struct {
	ID             int             `db:"id"`
	Description    string          `db:"description"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	Category       JournalCategory `db:"category"`
	CreatedAt      time.Time       `db:"created_at"`
}

type JournalSummary struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// HistoryItem is one row of a member's combined money movements.
type HistoryItem struct {
	Kind      string
	Amount    decimal.Decimal
	Direction string
	At        time.Time
}

type MemberDetail struct {
	User       *User
	Loan       *Loan
	Repayments []Repayment
}

type Profile struct {
	User    *User
	Loan    *Loan
	History []HistoryItem
}

type Stats struct {
	Members       int
	TotalBalance  decimal.Decimal
	PendingLoans  int
	PendingOrders int
	RecentLoans   []Loan
	RecentSavings []SavingsEntry
}

type CashReport struct {
	Summary JournalSummary
	Entries []JournalEntry
}
