package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// Stripe creates a one-off checkout session per payment. The session id doubles
// as the gateway reference the webhook/confirmation flow reports back.
type Stripe struct {
	AppURL string
}

func NewStripe(secretKey, appURL string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{AppURL: appURL}
}

func (s *Stripe) ProcessPayment(ctx context.Context, amount decimal.Decimal, currency, description, returnURL string) (*CheckoutResult, error) {
	successURL := returnURL
	if successURL == "" {
		successURL = s.AppURL + "/payments/result"
	}

	// Stripe wants minor units.
	unitAmount := amount.Mul(decimal.NewFromInt(100)).IntPart()

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(successURL + "?canceled=1"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(currency)),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
			},
		},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(map[string]string{
		"provider":  "stripe",
		"sessionId": sess.ID,
		"status":    string(sess.Status),
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{
		PaymentURL:  sess.URL,
		Reference:   sess.ID,
		RawResponse: raw,
	}, nil
}
