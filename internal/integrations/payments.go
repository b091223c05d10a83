package integrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	stripeclient "github.com/stripe/stripe-go/v76/client"
)

// PaymentMethod is the card shown in the app.
type PaymentMethod struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
}

// PaymentMethods looks up a customer's saved card. A nil method with a nil
// error means no card on file.
type PaymentMethods interface {
	DefaultPaymentMethod(ctx context.Context, customerID string) (*PaymentMethod, error)
}

// StripePayments reads cards from Stripe.
type StripePayments struct {
	api *stripeclient.API
}

func NewStripePayments(secretKey string) (*StripePayments, error) {
	if secretKey == "" {
		return nil, ErrDisabled
	}
	return &StripePayments{api: stripeclient.New(secretKey, nil)}, nil
}

// DefaultPaymentMethod prefers the invoice default and falls back to the
// first attached card.
func (s *StripePayments) DefaultPaymentMethod(ctx context.Context, customerID string) (*PaymentMethod, error) {
	if customerID == "" {
		return nil, nil
	}

	params := &stripe.CustomerParams{}
	params.Context = ctx
	params.AddExpand("invoice_settings.default_payment_method")
	cust, err := s.api.Customers.Get(customerID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("get stripe customer: %w", err)
	}
	if cust.InvoiceSettings != nil && cust.InvoiceSettings.DefaultPaymentMethod != nil {
		if pm := fromStripe(cust.InvoiceSettings.DefaultPaymentMethod); pm != nil {
			return pm, nil
		}
	}

	listParams := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)
	iter := s.api.PaymentMethods.List(listParams)
	if iter.Next() {
		return fromStripe(iter.PaymentMethod()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list stripe payment methods: %w", err)
	}
	return nil, nil
}

func fromStripe(pm *stripe.PaymentMethod) *PaymentMethod {
	if pm == nil || pm.Card == nil {
		return nil
	}
	return &PaymentMethod{ID: pm.ID, Brand: string(pm.Card.Brand), Last4: pm.Card.Last4}
}

// NoPayments reports no card for everyone.
type NoPayments struct{}

func (NoPayments) DefaultPaymentMethod(context.Context, string) (*PaymentMethod, error) {
	return nil, nil
}
