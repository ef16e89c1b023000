package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/cart"
	"github.com/karelbyte/redfox-pos/internal/models"
	"github.com/karelbyte/redfox-pos/internal/receipt"
)

// SalesAPI is the opaque back office the coordinator drives. Each method is
// one independent remote call; there is no transaction spanning them.
type SalesAPI interface {
	CreateSale(ctx context.Context, clientRef string) (string, error)
	AddSaleLine(ctx context.Context, saleID string, line models.CartLine) error
	CloseSale(ctx context.Context, saleID string, method models.PaymentMethod, total decimal.Decimal) error
}

// DrawerLedger is the slice of the cash ledger the coordinator needs.
type DrawerLedger interface {
	CurrentSession(ctx context.Context) (*models.CashRegisterSession, error)
	RecordTransaction(ctx context.Context, typ models.TransactionType, amount decimal.Decimal, method models.PaymentMethod, description, reference string, saleID *string) (*models.Transaction, error)
}

// Printer renders and dispatches the ticket. Failures are best-effort by
// design: a printed-nothing sale is still a sale.
type Printer interface {
	Print(ctx context.Context, d receipt.Data) (receipt.Output, error)
}

// Step identifies where in the checkout sequence a failure happened.
type Step string

const (
	StepCreateSale Step = "create_sale"
	StepAddLines   Step = "add_lines"
	StepCloseSale  Step = "close_sale"
	StepLedger     Step = "ledger"
	StepReceipt    Step = "receipt"
)

// StepError reports a failed checkout step. Steps already completed stay
// committed server-side; there is no compensating rollback.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("checkout step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Request carries the operator's checkout input.
type Request struct {
	PaymentMethod models.PaymentMethod
	Tendered      decimal.Decimal // cash handed over; must cover the total for CASH
	Cashier       string
}

// Result of a completed checkout. LedgerErr and ReceiptErr are the
// non-fatal tail failures: the sale is closed either way.
type Result struct {
	SaleID      string
	Total       decimal.Decimal
	Change      decimal.Decimal
	Transaction *models.Transaction
	Receipt     *receipt.Output
	LedgerErr   error
	ReceiptErr  error
}

// Coordinator turns the current cart into a closed remote sale, a drawer
// transaction and a ticket, in that fixed order.
type Coordinator struct {
	cart          *cart.Store
	api           SalesAPI
	ledger        DrawerLedger
	printer       Printer
	businessLines []string
	footerLines   []string
	log           *zap.Logger
}

func NewCoordinator(cartStore *cart.Store, api SalesAPI, drawer DrawerLedger, printer Printer, businessLines, footerLines []string, log *zap.Logger) *Coordinator {
	return &Coordinator{
		cart:          cartStore,
		api:           api,
		ledger:        drawer,
		printer:       printer,
		businessLines: businessLines,
		footerLines:   footerLines,
		log:           log,
	}
}

// Checkout runs the sequence: create sale, attach lines, close sale, record
// drawer transaction, print ticket, clear the cart.
//
// Failure policy: a failure up to and including close leaves the cart
// intact and returns a StepError; everything already sent stays committed
// remotely. Once the sale is confirmed closed, the cart is cleared and
// ledger/receipt failures are reported on the Result without undoing the
// sale.
func (c *Coordinator) Checkout(ctx context.Context, req Request) (*Result, error) {
	lines := c.cart.Lines()
	clientRef := c.cart.SelectedClient()
	total := c.cart.Total()

	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}
	if clientRef == "" {
		return nil, models.ErrNoClientSelected
	}
	if req.PaymentMethod == models.PaymentCash && req.Tendered.LessThan(total) {
		return nil, models.ErrInsufficientTender
	}

	saleID, err := c.api.CreateSale(ctx, clientRef)
	if err != nil {
		return nil, &StepError{Step: StepCreateSale, Err: err}
	}

	for _, line := range lines {
		if err := c.api.AddSaleLine(ctx, saleID, line); err != nil {
			return nil, &StepError{Step: StepAddLines, Err: err}
		}
	}

	if err := c.api.CloseSale(ctx, saleID, req.PaymentMethod, total); err != nil {
		return nil, &StepError{Step: StepCloseSale, Err: err}
	}

	// The sale is confirmed closed: from here on nothing rolls back.
	c.cart.Clear(ctx)

	result := &Result{
		SaleID: saleID,
		Total:  total,
	}
	if req.PaymentMethod == models.PaymentCash && req.Tendered.GreaterThan(total) {
		result.Change = req.Tendered.Sub(total)
	} else {
		result.Change = decimal.Zero
	}

	result.Transaction, result.LedgerErr = c.recordSale(ctx, saleID, total, req.PaymentMethod)
	if result.LedgerErr != nil {
		c.log.Error("drawer transaction not recorded for closed sale",
			zap.String("sale_id", saleID), zap.Error(result.LedgerErr))
	}

	out, err := c.printer.Print(ctx, c.buildTicket(saleID, req, lines, clientRef, total, result.Change))
	if err != nil {
		result.ReceiptErr = &StepError{Step: StepReceipt, Err: err}
		c.log.Warn("receipt failed for closed sale",
			zap.String("sale_id", saleID), zap.Error(err))
	} else {
		result.Receipt = &out
	}

	return result, nil
}

// Preview renders the ticket for the current cart without touching the
// remote API, the ledger or the cart itself.
func (c *Coordinator) Preview(ctx context.Context, req Request) (receipt.Output, error) {
	lines := c.cart.Lines()
	if len(lines) == 0 {
		return receipt.Output{}, models.ErrEmptyCart
	}

	total := c.cart.Total()
	change := decimal.Zero
	if req.PaymentMethod == models.PaymentCash && req.Tendered.GreaterThan(total) {
		change = req.Tendered.Sub(total)
	}
	return c.printer.Print(ctx, c.buildTicket("PREVIEW", req, lines, c.cart.SelectedClient(), total, change))
}

// recordSale appends the SALE transaction when a drawer session is open.
// No open session simply means no drawer entry; any other failure is
// surfaced as a non-fatal StepError.
func (c *Coordinator) recordSale(ctx context.Context, saleID string, total decimal.Decimal, method models.PaymentMethod) (*models.Transaction, error) {
	if _, err := c.ledger.CurrentSession(ctx); err != nil {
		if errors.Is(err, models.ErrNoOpenSession) {
			return nil, nil
		}
		return nil, &StepError{Step: StepLedger, Err: err}
	}

	tx, err := c.ledger.RecordTransaction(ctx, models.TransactionSale, total, method,
		"POS sale", saleID, &saleID)
	if err != nil {
		return nil, &StepError{Step: StepLedger, Err: err}
	}
	return tx, nil
}

func (c *Coordinator) buildTicket(saleID string, req Request, lines []models.CartLine, clientRef string, total, change decimal.Decimal) receipt.Data {
	items := make([]receipt.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, receipt.Item{
			Name:     line.ProductRef,
			Quantity: line.Quantity,
			Price:    line.Price,
			Total:    line.Subtotal,
		})
	}

	totals := []receipt.TotalLine{{Label: "TOTAL", Value: total}}
	if req.PaymentMethod == models.PaymentCash {
		totals = append(totals,
			receipt.TotalLine{Label: "PAID", Value: req.Tendered},
			receipt.TotalLine{Label: "CHANGE", Value: change},
		)
	}

	return receipt.Data{
		BusinessLines: c.businessLines,
		TicketCode:    saleID,
		Date:          time.Now().Format("2006-01-02 15:04"),
		Cashier:       req.Cashier,
		Client:        clientRef,
		Items:         items,
		Totals:        totals,
		FooterLines:   c.footerLines,
	}
}
