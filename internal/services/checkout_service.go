package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/checkout"
	"github.com/karelbyte/redfox-pos/internal/models"
	"github.com/karelbyte/redfox-pos/internal/receipt"
)

// CheckoutService fronts the checkout coordinator.
type CheckoutService struct {
	coordinator *checkout.Coordinator
	log         *zap.Logger
}

func NewCheckoutService(c *checkout.Coordinator, log *zap.Logger) *CheckoutService {
	return &CheckoutService{coordinator: c, log: log}
}

func (s *CheckoutService) Checkout(ctx context.Context, method, tendered, cashier string) (*checkout.Result, error) {
	req, err := buildCheckoutRequest(method, tendered, cashier)
	if err != nil {
		return nil, err
	}
	return s.coordinator.Checkout(ctx, req)
}

func (s *CheckoutService) Preview(ctx context.Context, method, tendered, cashier string) (receipt.Output, error) {
	req, err := buildCheckoutRequest(method, tendered, cashier)
	if err != nil {
		return receipt.Output{}, err
	}
	return s.coordinator.Preview(ctx, req)
}

func buildCheckoutRequest(method, tendered, cashier string) (checkout.Request, error) {
	payMethod := models.PaymentMethod(method)
	switch payMethod {
	case models.PaymentCash, models.PaymentCard, models.PaymentMixed:
	default:
		return checkout.Request{}, fmt.Errorf("unknown payment method %q", method)
	}

	amount := decimal.Zero
	if tendered != "" {
		parsed, err := decimal.NewFromString(tendered)
		if err != nil {
			return checkout.Request{}, fmt.Errorf("tendered amount must be a number")
		}
		amount = parsed
	}

	return checkout.Request{
		PaymentMethod: payMethod,
		Tendered:      amount,
		Cashier:       cashier,
	}, nil
}
