package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/cart"
	"github.com/karelbyte/redfox-pos/internal/models"
	"github.com/karelbyte/redfox-pos/internal/storage"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	cart    *cart.Store
	api     *mockSalesAPI
	drawer  *mockDrawer
	printer *mockPrinter
	coord   *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	store := cart.NewStore(context.Background(), storage.NewMemory(), log)
	api := &mockSalesAPI{saleID: "sale-42"}
	drawer := &mockDrawer{session: &models.CashRegisterSession{ID: "sess-1", Status: models.SessionOpen}}
	printer := &mockPrinter{}
	coord := NewCoordinator(store, api, drawer, printer,
		[]string{"RedFox Store"}, []string{"Thank you!"}, log)
	return &fixture{cart: store, api: api, drawer: drawer, printer: printer, coord: coord}
}

func (f *fixture) fillCart(ctx context.Context) {
	f.cart.AddLine(ctx, "prod-a", dec("2"), dec("10"))
	f.cart.AddLine(ctx, "prod-b", dec("1"), dec("5"))
	f.cart.SetSelectedClient(ctx, "client-1")
}

func cashRequest(tendered string) Request {
	return Request{
		PaymentMethod: models.PaymentCash,
		Tendered:      dec(tendered),
		Cashier:       "ana",
	}
}

func TestCheckoutValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.coord.Checkout(ctx, cashRequest("100"))
		assert.ErrorIs(t, err, models.ErrEmptyCart)
	})

	t.Run("no client selected", func(t *testing.T) {
		f := newFixture(t)
		f.cart.AddLine(ctx, "prod-a", dec("1"), dec("10"))
		_, err := f.coord.Checkout(ctx, cashRequest("100"))
		assert.ErrorIs(t, err, models.ErrNoClientSelected)
	})

	t.Run("cash below total", func(t *testing.T) {
		f := newFixture(t)
		f.fillCart(ctx)
		_, err := f.coord.Checkout(ctx, cashRequest("20"))
		assert.ErrorIs(t, err, models.ErrInsufficientTender)
		assert.Empty(t, f.api.createdFor, "no remote call before validation passes")
	})
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	result, err := f.coord.Checkout(ctx, cashRequest("30"))
	require.NoError(t, err)

	assert.Equal(t, "sale-42", result.SaleID)
	assert.True(t, result.Total.Equal(dec("25")))
	assert.True(t, result.Change.Equal(dec("5")))

	// remote sequence: created for the client, both lines attached in
	// cart order, closed with the cart total
	assert.Equal(t, "client-1", f.api.createdFor)
	require.Len(t, f.api.addedLines, 2)
	assert.Equal(t, "prod-a", f.api.addedLines[0].ProductRef)
	assert.Equal(t, "prod-b", f.api.addedLines[1].ProductRef)
	require.NotNil(t, f.api.closedWith)
	assert.True(t, f.api.closeTotal.Equal(dec("25")))

	// drawer entry carries the total and links the sale
	require.NotNil(t, result.Transaction)
	assert.Equal(t, models.TransactionSale, result.Transaction.Type)
	assert.True(t, result.Transaction.Amount.Equal(dec("25")))
	require.NotNil(t, result.Transaction.SaleID)
	assert.Equal(t, "sale-42", *result.Transaction.SaleID)

	require.NotNil(t, result.Receipt)
	assert.Nil(t, result.LedgerErr)
	assert.Nil(t, result.ReceiptErr)

	// the cart is destroyed after the sale closed
	assert.Empty(t, f.cart.Lines())
	assert.Empty(t, f.cart.SelectedClient())
}

func TestCreateSaleFailureLeavesCartIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)
	f.api.createErr = errBoom

	_, err := f.coord.Checkout(ctx, cashRequest("30"))
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCreateSale, stepErr.Step)

	assert.Len(t, f.cart.Lines(), 2)
	assert.Empty(t, f.drawer.recorded)
	assert.Empty(t, f.printer.printed)
}

func TestAddLineFailureLeavesCartIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)
	f.api.lineErr = errBoom

	_, err := f.coord.Checkout(ctx, cashRequest("30"))
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepAddLines, stepErr.Step)
	assert.Len(t, f.cart.Lines(), 2)
}

func TestCloseSaleFailureLeavesCartIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)
	f.api.closeErr = errBoom

	_, err := f.coord.Checkout(ctx, cashRequest("30"))
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCloseSale, stepErr.Step)

	// steps 1..N stay committed remotely, no compensation is attempted
	assert.Len(t, f.api.addedLines, 2)
	assert.Len(t, f.cart.Lines(), 2)
	assert.Empty(t, f.drawer.recorded)
}

func TestLedgerFailureDoesNotVoidClosedSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)
	f.drawer.recordErr = errBoom

	result, err := f.coord.Checkout(ctx, cashRequest("30"))
	require.NoError(t, err, "the sale is closed, the failure is reported on the result")

	require.NotNil(t, result.LedgerErr)
	var stepErr *StepError
	require.ErrorAs(t, result.LedgerErr, &stepErr)
	assert.Equal(t, StepLedger, stepErr.Step)

	assert.Nil(t, result.Transaction)
	assert.NotNil(t, result.Receipt, "ticket still printed")
	assert.Empty(t, f.cart.Lines(), "cart cleared once the sale closed")
}

func TestNoOpenDrawerSessionSkipsLedgerEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)
	f.drawer.session = nil

	result, err := f.coord.Checkout(ctx, cashRequest("30"))
	require.NoError(t, err)
	assert.Nil(t, result.Transaction)
	assert.Nil(t, result.LedgerErr, "a closed drawer is not an error")
	assert.NotNil(t, result.Receipt)
}

func TestPrintFailureDoesNotVoidSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)
	f.printer.printErr = errBoom

	result, err := f.coord.Checkout(ctx, cashRequest("30"))
	require.NoError(t, err)

	require.NotNil(t, result.ReceiptErr)
	assert.Nil(t, result.Receipt)
	require.NotNil(t, result.Transaction, "ledger entry stands")
	assert.Empty(t, f.cart.Lines())
}

func TestCardPaymentSkipsTenderCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	result, err := f.coord.Checkout(ctx, Request{PaymentMethod: models.PaymentCard, Cashier: "ana"})
	require.NoError(t, err)
	assert.True(t, result.Change.IsZero())
}

func TestPreviewDoesNotTouchRemoteOrCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	out, err := f.coord.Preview(ctx, cashRequest("30"))
	require.NoError(t, err)
	assert.NotEmpty(t, out.Text)

	assert.Empty(t, f.api.createdFor)
	assert.Len(t, f.cart.Lines(), 2)
	require.Len(t, f.printer.printed, 1)
	assert.Equal(t, "PREVIEW", f.printer.printed[0].TicketCode)
}
