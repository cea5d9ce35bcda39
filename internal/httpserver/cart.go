package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja/internal/service"
	"github.com/Skotchmaster/loja/internal/transport"
	"github.com/Skotchmaster/loja/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "add_item_error", err)
	}

	var req transport.AddItemRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "add_item_error", err)
	}

	cart, created, err := h.Svc.AddItem(ctx, userID, req)
	if err != nil {
		return fail(l, "add_item_error", err)
	}

	l.Info("add_item_success", "product_id", req.ProductID, "created", created)
	if created {
		return c.JSON(http.StatusCreated, cart)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) Total(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.total")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "cart_total_error", err)
	}

	total, err := h.Svc.Total(ctx, userID)
	if err != nil {
		return fail(l, "cart_total_error", err)
	}
	return c.JSON(http.StatusOK, transport.TotalResponse{Total: total})
}

// UpdateQuantity serves both PUT /carrinho/:productId/quantidade and
// PATCH /carrinho/quantidade; the binder fills productId from either place.
func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "update_quantity_error", err)
	}

	var req transport.UpdateQuantityRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_quantity_error", err)
	}

	cart, err := h.Svc.UpdateQuantity(ctx, userID, req)
	if err != nil {
		return fail(l, "update_quantity_error", err)
	}

	l.Info("update_quantity_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem serves DELETE /carrinho/item (productId in the body) and
// DELETE /carrinho/:itemId.
func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "remove_item_error", err)
	}

	var req transport.RemoveItemRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "remove_item_error", err)
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, req)
	if err != nil {
		return fail(l, "remove_item_error", err)
	}

	l.Info("remove_item_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := currentUser(c)
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		return fail(l, "clear_cart_error", err)
	}

	l.Info("clear_cart_success")
	return c.JSON(http.StatusOK, messageResponse{Message: "cart removed"})
}

func (h *CartHTTP) ListCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.admin_list")

	carts, err := h.Svc.ListCarts(ctx)
	if err != nil {
		return fail(l, "list_carts_error", err)
	}
	return c.JSON(http.StatusOK, carts)
}

// DeleteUserCart removes the cart owned by the user in :id.
func (h *CartHTTP) DeleteUserCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.admin_delete")

	userID := c.Param("id")
	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		return fail(l, "admin_delete_cart_error", err)
	}

	l.Info("admin_delete_cart_success", "user_id", userID)
	return c.JSON(http.StatusOK, messageResponse{Message: "cart removed"})
}
