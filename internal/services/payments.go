package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CheckoutRequest is what the provider needs to open a hosted subscription
// checkout.
type CheckoutRequest struct {
	Username   string
	Email      string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the provider's view of a checkout.
type CheckoutSession struct {
	ID                string
	URL               string
	Completed         bool
	ClientReferenceID string
}

// CheckoutProvider is the external payment boundary.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// PaymentService 订阅支付：创建结账会话不改本地状态，只有成功回调会开通订阅
type PaymentService struct {
	users      *UserService
	provider   CheckoutProvider
	successURL string
	cancelURL  string
}

func NewPaymentService(users *UserService, provider CheckoutProvider, successURL, cancelURL string) *PaymentService {
	return &PaymentService{
		users:      users,
		provider:   provider,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateSubscription returns the hosted checkout URL. Provider failures
// wrap ErrPaymentProvider with the provider's message.
func (s *PaymentService) CreateSubscription(ctx context.Context, username, priceID string) (string, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "price_id": priceID})

	email, err := s.users.Email(ctx, username)
	if err != nil {
		return "", err
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		Username:   username,
		Email:      email,
		PriceID:    priceID,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		logCtx.WithError(err).Error("Create checkout session failed")
		return "", fmt.Errorf("%w: %s", ErrPaymentProvider, providerMessage(err))
	}

	logCtx.WithField("session_id", sess.ID).Info("Checkout session created")
	return sess.URL, nil
}

// CompleteSubscription verifies a completed checkout that belongs to
// username, then flips the subscription flag.
func (s *PaymentService) CompleteSubscription(ctx context.Context, username, sessionID string) error {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "session_id": sessionID})

	if sessionID == "" {
		return ErrPaymentNotConfirmed
	}
	sess, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		logCtx.WithError(err).Error("Get checkout session failed")
		return fmt.Errorf("%w: %s", ErrPaymentProvider, providerMessage(err))
	}
	if !sess.Completed || sess.ClientReferenceID != username {
		logCtx.WithFields(logrus.Fields{
			"completed": sess.Completed,
			"reference": sess.ClientReferenceID,
		}).Warn("Checkout session not confirmed for user")
		return ErrPaymentNotConfirmed
	}

	return s.users.Subscribe(ctx, username)
}

// providerError lets a provider expose a user-facing message.
type providerError interface {
	ProviderMessage() string
}

func providerMessage(err error) string {
	var pe providerError
	if errors.As(err, &pe) {
		return pe.ProviderMessage()
	}
	return err.Error()
}
