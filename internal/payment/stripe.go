// Package payment creates payment intents at Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/Skotchmaster/loja/internal/service"
)

var ErrPublishableKey = errors.New("stripe secret key must not be a publishable key (pk_)")

type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) (*StripeProvider, error) {
	if err := CheckSecretKey(secretKey); err != nil {
		return nil, err
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeProvider{api: sc}, nil
}

func CheckSecretKey(key string) error {
	if key == "" {
		return errors.New("stripe secret key is empty")
	}
	if strings.HasPrefix(key, "pk_") {
		return ErrPublishableKey
	}
	return nil
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, in service.PaymentIntentParams) (*service.PaymentIntent, error) {
	pi, err := p.api.PaymentIntents.New(intentParams(ctx, in))
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			return nil, fmt.Errorf("stripe %s (%d): %s", se.Type, se.HTTPStatusCode, se.Msg)
		}
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return &service.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func intentParams(ctx context.Context, in service.PaymentIntentParams) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(in.Currency),
	}
	if in.CardOnly {
		params.PaymentMethodTypes = stripe.StringSlice([]string{"card"})
	} else {
		params.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		}
	}
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	params.Context = ctx
	params.AddMetadata("user_id", in.UserID)
	return params
}
