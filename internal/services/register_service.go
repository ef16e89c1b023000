package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/ledger"
	"github.com/karelbyte/redfox-pos/internal/models"
)

// RegisterService fronts the cash ledger for the terminal UI.
type RegisterService struct {
	ledger *ledger.CashLedger
	log    *zap.Logger
}

func NewRegisterService(l *ledger.CashLedger, log *zap.Logger) *RegisterService {
	return &RegisterService{ledger: l, log: log}
}

func (s *RegisterService) OpenSession(ctx context.Context, openingAmount, name string) (*models.CashRegisterSession, error) {
	amount, err := decimal.NewFromString(openingAmount)
	if err != nil {
		return nil, fmt.Errorf("opening amount must be a number")
	}
	return s.ledger.OpenSession(ctx, amount, name)
}

func (s *RegisterService) CurrentSession(ctx context.Context) (*models.CashRegisterSession, error) {
	return s.ledger.CurrentSession(ctx)
}

func (s *RegisterService) RecordTransaction(ctx context.Context, typ, amount, method, description, reference string, saleID *string) (*models.Transaction, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("amount must be a number")
	}

	txType := models.TransactionType(typ)
	switch txType {
	case models.TransactionSale, models.TransactionRefund, models.TransactionAdjustment:
	default:
		return nil, fmt.Errorf("unknown transaction type %q", typ)
	}

	payMethod := models.PaymentMethod(method)
	switch payMethod {
	case models.PaymentCash, models.PaymentCard, models.PaymentMixed:
	default:
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	return s.ledger.RecordTransaction(ctx, txType, value, payMethod, description, reference, saleID)
}

// SessionBalance reports the recomputed balance and cash sub-balance of the
// current open session.
type SessionBalance struct {
	SessionID   string          `json:"session_id"`
	Balance     decimal.Decimal `json:"balance"`
	CashBalance decimal.Decimal `json:"cash_balance"`
}

func (s *RegisterService) Balance(ctx context.Context) (*SessionBalance, error) {
	session, err := s.ledger.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.Balance(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	cash, err := s.ledger.CashBalance(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &SessionBalance{
		SessionID:   session.ID,
		Balance:     balance,
		CashBalance: cash,
	}, nil
}

func (s *RegisterService) CloseSession(ctx context.Context, countedAmount, description string) (*models.CashRegisterSession, error) {
	amount, err := decimal.NewFromString(countedAmount)
	if err != nil {
		return nil, fmt.Errorf("counted amount must be a number")
	}
	return s.ledger.CloseSession(ctx, amount, description)
}
