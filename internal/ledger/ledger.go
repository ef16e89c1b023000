package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/models"
)

// Store is the append-only persistence behind the ledger. Transactions are
// only ever appended; sessions are created, read and flipped to CLOSED.
type Store interface {
	CreateSession(ctx context.Context, session models.CashRegisterSession) error
	Session(ctx context.Context, sessionID string) (*models.CashRegisterSession, error)
	// OpenSession returns the OPEN session of the register, or
	// models.ErrNoOpenSession when the drawer is closed.
	OpenSession(ctx context.Context, registerID string) (*models.CashRegisterSession, error)
	CloseSession(ctx context.Context, sessionID string, closedAt time.Time) error
	AppendTransaction(ctx context.Context, tx models.Transaction) error
	Transactions(ctx context.Context, sessionID string) ([]models.Transaction, error)
}

// CashLedger tracks one register's drawer. The running balance is never
// cached: every read walks the confirmed transaction log, so a failed or
// duplicated append can never leave a phantom amount in the projection.
type CashLedger struct {
	registerID string
	store      Store
	log        *zap.Logger
}

func NewCashLedger(registerID string, store Store, log *zap.Logger) *CashLedger {
	return &CashLedger{
		registerID: registerID,
		store:      store,
		log:        log,
	}
}

// OpenSession starts a drawer shift with the attested opening amount.
// Fails while another session of this register is still OPEN.
func (l *CashLedger) OpenSession(ctx context.Context, openingAmount decimal.Decimal, name string) (*models.CashRegisterSession, error) {
	if openingAmount.IsNegative() {
		return nil, fmt.Errorf("opening amount must not be negative")
	}

	if _, err := l.store.OpenSession(ctx, l.registerID); err == nil {
		return nil, models.ErrSessionAlreadyOpen
	} else if !errors.Is(err, models.ErrNoOpenSession) {
		return nil, err
	}

	session := models.CashRegisterSession{
		ID:            uuid.NewString(),
		RegisterID:    l.registerID,
		Name:          name,
		Status:        models.SessionOpen,
		OpeningAmount: openingAmount,
		OpenedAt:      time.Now().UTC(),
	}
	if err := l.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	l.log.Info("cash register session opened",
		zap.String("session_id", session.ID),
		zap.String("register_id", l.registerID),
		zap.String("opening_amount", openingAmount.String()))
	return &session, nil
}

// CurrentSession returns the OPEN session of this register.
func (l *CashLedger) CurrentSession(ctx context.Context) (*models.CashRegisterSession, error) {
	return l.store.OpenSession(ctx, l.registerID)
}

// RecordTransaction appends one movement to the drawer log. The amount is a
// non-negative magnitude except for ADJUSTMENT, which may carry a negative
// value to decrease the drawer; the ledger, not the caller, assigns the
// signed contribution. Rejected when no session is OPEN.
func (l *CashLedger) RecordTransaction(ctx context.Context, typ models.TransactionType, amount decimal.Decimal, method models.PaymentMethod, description, reference string, saleID *string) (*models.Transaction, error) {
	if amount.IsNegative() && typ != models.TransactionAdjustment {
		return nil, fmt.Errorf("%s amount must be a non-negative magnitude", typ)
	}

	session, err := l.store.OpenSession(ctx, l.registerID)
	if errors.Is(err, models.ErrNoOpenSession) {
		return nil, models.ErrSessionClosed
	}
	if err != nil {
		return nil, err
	}

	tx := models.Transaction{
		ID:             uuid.NewString(),
		CashRegisterID: session.ID,
		Type:           typ,
		Amount:         amount,
		Description:    description,
		Reference:      reference,
		PaymentMethod:  method,
		SaleID:         saleID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := l.store.AppendTransaction(ctx, tx); err != nil {
		// no speculative balance bump: the projection only ever reads
		// confirmed appends
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	l.log.Info("transaction recorded",
		zap.String("session_id", session.ID),
		zap.String("type", string(typ)),
		zap.String("amount", amount.String()))
	return &tx, nil
}

// Balance recomputes the drawer value from the opening amount and the full
// transaction log. Always a full walk; there is no cached counter to trust.
func (l *CashLedger) Balance(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	return l.balance(ctx, sessionID, false)
}

// CashBalance is Balance restricted to CASH transactions.
func (l *CashLedger) CashBalance(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	return l.balance(ctx, sessionID, true)
}

func (l *CashLedger) balance(ctx context.Context, sessionID string, cashOnly bool) (decimal.Decimal, error) {
	session, err := l.store.Session(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}

	txs, err := l.store.Transactions(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := session.OpeningAmount
	for _, tx := range txs {
		if cashOnly && tx.PaymentMethod != models.PaymentCash {
			continue
		}
		balance = balance.Add(tx.SignedAmount())
	}
	return balance, nil
}

// CloseSession appends the terminal CLOSING attestation with the counted
// amount and flips the session to CLOSED. Irreversible; a new session must
// be opened for the next shift. Safe to retry: when an earlier attempt
// appended the attestation but failed to flip the status, the retry reuses
// the existing CLOSING row instead of appending a second one.
func (l *CashLedger) CloseSession(ctx context.Context, countedAmount decimal.Decimal, description string) (*models.CashRegisterSession, error) {
	session, err := l.store.OpenSession(ctx, l.registerID)
	if err != nil {
		return nil, err
	}

	txs, err := l.store.Transactions(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	attested := false
	for _, tx := range txs {
		if tx.Type == models.TransactionClosing {
			attested = true
			break
		}
	}

	if !attested {
		closing := models.Transaction{
			ID:             uuid.NewString(),
			CashRegisterID: session.ID,
			Type:           models.TransactionClosing,
			Amount:         countedAmount,
			Description:    description,
			PaymentMethod:  models.PaymentCash,
			CreatedAt:      time.Now().UTC(),
		}
		if err := l.store.AppendTransaction(ctx, closing); err != nil {
			return nil, fmt.Errorf("append closing transaction: %w", err)
		}
	}

	closedAt := time.Now().UTC()
	if err := l.store.CloseSession(ctx, session.ID, closedAt); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}

	l.log.Info("cash register session closed",
		zap.String("session_id", session.ID),
		zap.String("counted_amount", countedAmount.String()))

	session.Status = models.SessionClosed
	session.ClosedAt = &closedAt
	return session, nil
}
