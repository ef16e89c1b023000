package checkout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/karelbyte/redfox-pos/internal/models"
	"github.com/karelbyte/redfox-pos/internal/receipt"
)

// mockSalesAPI implements SalesAPI for testing
type mockSalesAPI struct {
	saleID    string
	createErr error
	lineErr   error
	closeErr  error

	createdFor string
	addedLines []models.CartLine
	closedWith *models.PaymentMethod
	closeTotal decimal.Decimal
}

func (m *mockSalesAPI) CreateSale(_ context.Context, clientRef string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.createdFor = clientRef
	return m.saleID, nil
}

func (m *mockSalesAPI) AddSaleLine(_ context.Context, _ string, line models.CartLine) error {
	if m.lineErr != nil {
		return m.lineErr
	}
	m.addedLines = append(m.addedLines, line)
	return nil
}

func (m *mockSalesAPI) CloseSale(_ context.Context, _ string, method models.PaymentMethod, total decimal.Decimal) error {
	if m.closeErr != nil {
		return m.closeErr
	}
	m.closedWith = &method
	m.closeTotal = total
	return nil
}

// mockDrawer implements DrawerLedger for testing
type mockDrawer struct {
	session   *models.CashRegisterSession
	recordErr error
	recorded  []models.Transaction
}

func (m *mockDrawer) CurrentSession(context.Context) (*models.CashRegisterSession, error) {
	if m.session == nil {
		return nil, models.ErrNoOpenSession
	}
	return m.session, nil
}

func (m *mockDrawer) RecordTransaction(_ context.Context, typ models.TransactionType, amount decimal.Decimal, method models.PaymentMethod, description, reference string, saleID *string) (*models.Transaction, error) {
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	tx := models.Transaction{
		ID:             "tx-1",
		CashRegisterID: m.session.ID,
		Type:           typ,
		Amount:         amount,
		Description:    description,
		Reference:      reference,
		PaymentMethod:  method,
		SaleID:         saleID,
	}
	m.recorded = append(m.recorded, tx)
	return &tx, nil
}

// mockPrinter implements Printer for testing
type mockPrinter struct {
	printErr error
	printed  []receipt.Data
}

func (m *mockPrinter) Print(_ context.Context, d receipt.Data) (receipt.Output, error) {
	if m.printErr != nil {
		return receipt.Output{}, m.printErr
	}
	m.printed = append(m.printed, d)
	return receipt.Output{Text: "ticket", HTML: "<pre>ticket</pre>"}, nil
}

var errBoom = errors.New("boom")
