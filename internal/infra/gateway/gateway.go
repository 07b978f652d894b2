package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutResult is what a payment provider hands back after a payment intent
// is registered on its side.
type CheckoutResult struct {
	PaymentURL  string
	Reference   string
	RawResponse json.RawMessage
}

// Client is the payment-provider capability. The engine only ever talks to
// this interface; Mock and Stripe are the two implementations.
type Client interface {
	ProcessPayment(ctx context.Context, amount decimal.Decimal, currency, description, returnURL string) (*CheckoutResult, error)
}

// Mock generates a synthetic reference and checkout URL without any network
// round trip. Used in development and tests.
type Mock struct {
	BaseURL string
}

func NewMock(baseURL string) *Mock {
	if baseURL == "" {
		baseURL = "https://checkout.example.test"
	}
	return &Mock{BaseURL: baseURL}
}

func (m *Mock) ProcessPayment(ctx context.Context, amount decimal.Decimal, currency, description, returnURL string) (*CheckoutResult, error) {
	ref := "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
	raw, err := json.Marshal(map[string]string{
		"provider":  "mock",
		"reference": ref,
		"amount":    amount.String(),
		"currency":  currency,
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{
		PaymentURL:  m.BaseURL + "/pay/" + ref,
		Reference:   ref,
		RawResponse: raw,
	}, nil
}
