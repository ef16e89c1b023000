package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/karelbyte/redfox-pos/internal/models"
)

// MemoryStore keeps sessions and transactions in process memory. Used in
// tests and for terminals running without a database.
type MemoryStore struct {
	mu           sync.Mutex
	sessions     map[string]*models.CashRegisterSession
	transactions map[string][]models.Transaction // sessionID -> append order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:     make(map[string]*models.CashRegisterSession),
		transactions: make(map[string][]models.Transaction),
	}
}

func (m *MemoryStore) CreateSession(_ context.Context, session models.CashRegisterSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := session
	m.sessions[session.ID] = &s
	return nil
}

func (m *MemoryStore) Session(_ context.Context, sessionID string) (*models.CashRegisterSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, models.ErrNoOpenSession
	}
	out := *session
	return &out, nil
}

func (m *MemoryStore) OpenSession(_ context.Context, registerID string) (*models.CashRegisterSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		if session.RegisterID == registerID && session.Status == models.SessionOpen {
			out := *session
			return &out, nil
		}
	}
	return nil, models.ErrNoOpenSession
}

func (m *MemoryStore) CloseSession(_ context.Context, sessionID string, closedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return models.ErrNoOpenSession
	}
	session.Status = models.SessionClosed
	session.ClosedAt = &closedAt
	return nil
}

func (m *MemoryStore) AppendTransaction(_ context.Context, tx models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.CashRegisterID] = append(m.transactions[tx.CashRegisterID], tx)
	return nil
}

func (m *MemoryStore) Transactions(_ context.Context, sessionID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txs := m.transactions[sessionID]
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}
