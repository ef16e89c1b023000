package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/models"
)

// LedgerRepository persists cash register sessions and their append-only
// transaction log in Postgres. It implements ledger.Store.
type LedgerRepository struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewLedgerRepository(pool *pgxpool.Pool, log *zap.Logger) *LedgerRepository {
	return &LedgerRepository{pool: pool, log: log}
}

// RunMigrations applies the ledger schema from the migrations directory.
func RunMigrations(databaseURL, migrationsDir string) error {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsDir), databaseURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (r *LedgerRepository) CreateSession(ctx context.Context, session models.CashRegisterSession) error {
	r.log.Info("CreateSession", zap.String("session_id", session.ID), zap.String("register_id", session.RegisterID))

	q := `INSERT INTO cash_register_sessions
	        (id, register_id, name, status, opening_amount, opened_at)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, q,
		session.ID, session.RegisterID, session.Name,
		string(session.Status), session.OpeningAmount, session.OpenedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *LedgerRepository) Session(ctx context.Context, sessionID string) (*models.CashRegisterSession, error) {
	q := `SELECT id, register_id, name, status, opening_amount, opened_at, closed_at
	      FROM cash_register_sessions WHERE id = $1`
	return r.scanSession(r.pool.QueryRow(ctx, q, sessionID))
}

func (r *LedgerRepository) OpenSession(ctx context.Context, registerID string) (*models.CashRegisterSession, error) {
	q := `SELECT id, register_id, name, status, opening_amount, opened_at, closed_at
	      FROM cash_register_sessions
	      WHERE register_id = $1 AND status = 'OPEN'
	      ORDER BY opened_at DESC LIMIT 1`
	return r.scanSession(r.pool.QueryRow(ctx, q, registerID))
}

func (r *LedgerRepository) CloseSession(ctx context.Context, sessionID string, closedAt time.Time) error {
	r.log.Info("CloseSession", zap.String("session_id", sessionID))

	q := `UPDATE cash_register_sessions
	      SET status = 'CLOSED', closed_at = $2
	      WHERE id = $1 AND status = 'OPEN'`
	tag, err := r.pool.Exec(ctx, q, sessionID, closedAt)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoOpenSession
	}
	return nil
}

func (r *LedgerRepository) AppendTransaction(ctx context.Context, tx models.Transaction) error {
	r.log.Info("AppendTransaction",
		zap.String("session_id", tx.CashRegisterID),
		zap.String("type", string(tx.Type)))

	q := `INSERT INTO cash_transactions
	        (id, session_id, type, amount, description, reference, payment_method, sale_id, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, q,
		tx.ID, tx.CashRegisterID, string(tx.Type), tx.Amount,
		tx.Description, tx.Reference, string(tx.PaymentMethod), tx.SaleID, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *LedgerRepository) Transactions(ctx context.Context, sessionID string) ([]models.Transaction, error) {
	q := `SELECT id, session_id, type, amount, description, reference, payment_method, sale_id, created_at
	      FROM cash_transactions
	      WHERE session_id = $1
	      ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var typ, method string
		if err := rows.Scan(&tx.ID, &tx.CashRegisterID, &typ, &tx.Amount,
			&tx.Description, &tx.Reference, &method, &tx.SaleID, &tx.CreatedAt); err != nil {
			return nil, err
		}
		tx.Type = models.TransactionType(typ)
		tx.PaymentMethod = models.PaymentMethod(method)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *LedgerRepository) scanSession(row pgx.Row) (*models.CashRegisterSession, error) {
	var s models.CashRegisterSession
	var status string
	err := row.Scan(&s.ID, &s.RegisterID, &s.Name, &status,
		&s.OpeningAmount, &s.OpenedAt, &s.ClosedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNoOpenSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	s.Status = models.SessionStatus(status)
	return &s, nil
}
