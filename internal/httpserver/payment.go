package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja/internal/service"
	"github.com/Skotchmaster/loja/internal/transport"
	"github.com/Skotchmaster/loja/pkg/logging"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_intent")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "create_payment_intent_error", err)
	}

	var req transport.PaymentIntentRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_payment_intent_error", err)
	}

	intent, err := h.Svc.CreatePaymentIntent(ctx, userID, req)
	if err != nil {
		return fail(l, "create_payment_intent_error", err)
	}

	l.Info("create_payment_intent_success", "intent_id", intent.ID)
	return c.JSON(http.StatusOK, intent)
}

func (h *PaymentHTTP) CreateCardPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.card")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "create_card_payment_error", err)
	}

	intent, err := h.Svc.CreateCardPayment(ctx, userID)
	if err != nil {
		return fail(l, "create_card_payment_error", err)
	}

	l.Info("create_card_payment_success", "intent_id", intent.ID)
	return c.JSON(http.StatusOK, intent)
}

func (h *PaymentHTTP) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.list")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "list_payments_error", err)
	}

	payments, err := h.Svc.ListPayments(ctx, userID)
	if err != nil {
		return fail(l, "list_payments_error", err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHTTP) Config(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "payment.config")

	cfg, err := h.Svc.Config()
	if err != nil {
		return fail(l, "payment_config_error", err)
	}
	return c.JSON(http.StatusOK, cfg)
}
