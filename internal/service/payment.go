package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/transport"
	"github.com/Skotchmaster/loja/pkg/logging"
)

const paymentStatusCreated = "created"

var ErrPaymentsNotConfigured = errors.New("payments are not configured")

type PaymentService struct {
	Provider PaymentProvider
	Carts    CartRepo
	Payments PaymentRepo
	Events   EventPublisher
	// AmountFromCart ignores the client amount and charges the cart total.
	AmountFromCart bool
	PublishableKey string
	Now            func() time.Time
}

func (s *PaymentService) CreatePaymentIntent(ctx context.Context, userID string, req transport.PaymentIntentRequest) (*PaymentIntent, error) {
	if err := req.Validate(!s.AmountFromCart); err != nil {
		return nil, err
	}

	var amount int64
	if s.AmountFromCart {
		a, err := s.cartAmount(ctx, userID)
		if err != nil {
			return nil, err
		}
		amount = a
	} else {
		amount = *req.Amount
	}

	return s.create(ctx, PaymentIntentParams{Amount: amount, Currency: req.Currency, UserID: userID})
}

// CreateCardPayment charges the cart total with card as the only method.
func (s *PaymentService) CreateCardPayment(ctx context.Context, userID string) (*PaymentIntent, error) {
	amount, err := s.cartAmount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, PaymentIntentParams{
		Amount:   amount,
		Currency: transport.DefaultCurrency,
		CardOnly: true,
		UserID:   userID,
	})
}

func (s *PaymentService) ListPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.Payments.ListPayments(ctx, userID)
}

func (s *PaymentService) Config() (*transport.ConfigResponse, error) {
	if s.PublishableKey == "" {
		return nil, fmt.Errorf("publishable key: %w", ErrPaymentsNotConfigured)
	}
	return &transport.ConfigResponse{PublishableKey: s.PublishableKey}, nil
}

func (s *PaymentService) cartAmount(ctx context.Context, userID string) (int64, error) {
	cart, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return 0, apperror.Validation("invalid payment", "cart is empty")
		}
		return 0, err
	}
	amount, err := minorUnits(cartTotal(cart.Items))
	if err != nil {
		return 0, apperror.Validation("invalid payment",
			fmt.Sprintf("cart total exceeds the maximum charge of %d minor units", transport.MaxAmount))
	}
	if amount <= 0 {
		return 0, apperror.Validation("invalid payment", "cart is empty")
	}
	return amount, nil
}

func (s *PaymentService) create(ctx context.Context, p PaymentIntentParams) (*PaymentIntent, error) {
	if s.Provider == nil {
		return nil, ErrPaymentsNotConfigured
	}

	intent, err := s.Provider.CreatePaymentIntent(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	now := nowUTC(s.Now)
	if s.Payments != nil {
		rec := &models.Payment{
			UserID:    p.UserID,
			IntentID:  intent.ID,
			Amount:    p.Amount,
			Currency:  p.Currency,
			Status:    paymentStatusCreated,
			CreatedAt: now,
		}
		if err := s.Payments.CreatePayment(ctx, rec); err != nil {
			logging.FromContext(ctx).Warn("payment_record_failed", "intent_id", intent.ID, "error", err)
		}
	}

	publish(ctx, s.Events, TopicPaymentEvents, p.UserID, PaymentEvent{
		Type: "payment_intent_created", UserID: p.UserID, IntentID: intent.ID, Amount: p.Amount, Currency: p.Currency, At: now,
	})
	return intent, nil
}
