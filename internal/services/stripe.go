package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// StripeProvider opens Stripe hosted checkout sessions in subscription mode.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	return &StripeProvider{api: client.New(secretKey, nil)}
}

type stripeError struct {
	err *stripe.Error
}

func (e *stripeError) Error() string           { return e.err.Error() }
func (e *stripeError) Unwrap() error           { return e.err }
func (e *stripeError) ProviderMessage() string { return e.err.Msg }

func wrapStripe(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return &stripeError{err: se}
	}
	return err
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail:     stripe.String(req.Email),
		ClientReferenceID: stripe.String(req.Username),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripe(err)
	}
	return toCheckoutSession(sess), nil
}

func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, wrapStripe(err)
	}
	return toCheckoutSession(sess), nil
}

func toCheckoutSession(sess *stripe.CheckoutSession) *CheckoutSession {
	return &CheckoutSession{
		ID:                sess.ID,
		URL:               sess.URL,
		Completed:         sess.Status == stripe.CheckoutSessionStatusComplete,
		ClientReferenceID: sess.ClientReferenceID,
	}
}
