package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a cash drawer movement. The type decides the
// sign of the contribution to the running balance; callers always pass a
// non-negative magnitude.
type TransactionType string

const (
	TransactionSale       TransactionType = "SALE"
	TransactionRefund     TransactionType = "REFUND"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
	TransactionClosing    TransactionType = "CLOSING"
)

// PaymentMethod is how the customer settled a sale.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentCard  PaymentMethod = "CARD"
	PaymentMixed PaymentMethod = "MIXED"
)

// SessionStatus of a cash register session. CLOSED is terminal.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// CartLine is one product entry in the unsubmitted order. Subtotal is
// always derived from Quantity and Price, never mutated on its own.
type CartLine struct {
	ProductRef string          `json:"productRef"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// CartSnapshot is the persisted cart blob. Field names are the legacy wire
// contract of the terminal frontend and must not change.
type CartSnapshot struct {
	Lines             []CartLine `json:"lines"`
	SelectedClientRef string     `json:"selectedClientRef"`
}

// Transaction is one immutable entry of the cash drawer ledger. The JSON
// shape matches the record sent to the remote ledger API.
type Transaction struct {
	ID             string          `json:"id"`
	CashRegisterID string          `json:"cash_register_id"`
	Type           TransactionType `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	SaleID         *string         `json:"sale_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SignedAmount returns the contribution of the transaction to the running
// balance: SALE adds, REFUND subtracts, ADJUSTMENT adds as supplied (a
// negative magnitude decreases), CLOSING is an attestation and contributes
// nothing.
func (t Transaction) SignedAmount() decimal.Decimal {
	switch t.Type {
	case TransactionSale, TransactionAdjustment:
		return t.Amount
	case TransactionRefund:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// CashRegisterSession is one drawer shift. At most one session may be OPEN
// per register at a time.
type CashRegisterSession struct {
	ID            string          `json:"id"`
	RegisterID    string          `json:"cash_register_id"`
	Name          string          `json:"name"`
	Status        SessionStatus   `json:"status"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	OpenedAt      time.Time       `json:"opened_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

// Validation errors surfaced to the operator; recoverable by re-input.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNoClientSelected   = errors.New("no client selected")
	ErrInsufficientTender = errors.New("cash tendered is below the total")
	ErrSessionClosed      = errors.New("cash register session is closed")
	ErrSessionAlreadyOpen = errors.New("a cash register session is already open")
	ErrNoOpenSession      = errors.New("no open cash register session")
)
