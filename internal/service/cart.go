package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/transport"
)

type CartService struct {
	Carts    CartRepo
	Products ProductRepo
	Users    UserRepo
	Events   EventPublisher
	Now      func() time.Time
}

// AddItem merges quantity into the user's cart, creating the cart on first
// use. The bool result is true when the cart was created by this call.
func (s *CartService) AddItem(ctx context.Context, userID string, req transport.AddItemRequest) (*models.Cart, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	product, err := s.Products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, false, err
	}

	now := nowUTC(s.Now)
	cart, created, err := s.Carts.MutateCart(ctx, userID, true, func(c *models.Cart) error {
		if err := mergeItem(c, product, *req.Quantity); err != nil {
			return err
		}
		touch(c, now)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	publish(ctx, s.Events, TopicCartEvents, userID, CartEvent{
		Type: "cart_item_added", UserID: userID, ProductID: product.ID, Quantity: *req.Quantity, Total: cart.Total, At: now,
	})
	return normalize(cart), created, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return normalize(cart), nil
}

// Total recomputes the total from the stored items.
func (s *CartService) Total(ctx context.Context, userID string) (float64, error) {
	cart, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cartTotal(cart.Items), nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID string, req transport.UpdateQuantityRequest) (*models.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := nowUTC(s.Now)
	cart, _, err := s.Carts.MutateCart(ctx, userID, false, func(c *models.Cart) error {
		if err := setQuantity(c, req.ProductID, *req.Quantity); err != nil {
			return err
		}
		touch(c, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicCartEvents, userID, CartEvent{
		Type: "cart_item_updated", UserID: userID, ProductID: req.ProductID, Quantity: *req.Quantity, Total: cart.Total, At: now,
	})
	return normalize(cart), nil
}

// RemoveItem drops the product line. An emptied cart is kept with total 0.
func (s *CartService) RemoveItem(ctx context.Context, userID string, req transport.RemoveItemRequest) (*models.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := nowUTC(s.Now)
	cart, _, err := s.Carts.MutateCart(ctx, userID, false, func(c *models.Cart) error {
		if err := removeItem(c, req.ProductID); err != nil {
			return err
		}
		touch(c, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicCartEvents, userID, CartEvent{
		Type: "cart_item_removed", UserID: userID, ProductID: req.ProductID, Total: cart.Total, At: now,
	})
	return normalize(cart), nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.Carts.DeleteCart(ctx, userID); err != nil {
		return err
	}
	publish(ctx, s.Events, TopicCartEvents, userID, CartEvent{Type: "cart_cleared", UserID: userID, At: nowUTC(s.Now)})
	return nil
}

// ListCarts returns every cart with its owner's name. Carts whose owner no
// longer exists get an empty name.
func (s *CartService) ListCarts(ctx context.Context) ([]models.CartWithOwner, error) {
	carts, err := s.Carts.ListCarts(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	out := make([]models.CartWithOwner, 0, len(carts))
	for i := range carts {
		out = append(out, models.CartWithOwner{
			Cart:      *normalize(&carts[i]),
			OwnerName: names[carts[i].UserID],
		})
	}
	return out, nil
}

func mergeItem(c *models.Cart, p *models.Product, qty int) error {
	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			if c.Items[i].Quantity > transport.MaxQuantity-qty {
				return apperror.Validation("invalid item",
					fmt.Sprintf("quantity must be at most %d, cart already holds %d", transport.MaxQuantity, c.Items[i].Quantity))
			}
			c.Items[i].Quantity += qty
			return nil
		}
	}
	c.Items = append(c.Items, models.CartItem{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: p.Price,
		Name:      p.Name,
	})
	return nil
}

func setQuantity(c *models.Cart, productID string, qty int) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			return nil
		}
	}
	return apperror.NotFound("cart item")
}

func removeItem(c *models.Cart, productID string) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("cart item")
}

// touch recomputes the total from the items and stamps the cart.
func touch(c *models.Cart, now time.Time) {
	c.Total = cartTotal(c.Items)
	c.LastUpdated = now
}

func cartTotal(items []models.CartItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.InexactFloat64()
}

var errAmountOutOfRange = errors.New("amount out of range")

// minorUnits converts an amount to integer cents, rounding half away from zero.
// Amounts above transport.MaxAmount cents are rejected.
func minorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errAmountOutOfRange
	}
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0)
	if cents.IsNegative() || cents.GreaterThan(decimal.NewFromInt(transport.MaxAmount)) {
		return 0, fmt.Errorf("%w: %s", errAmountOutOfRange, cents)
	}
	return cents.IntPart(), nil
}

func normalize(c *models.Cart) *models.Cart {
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c
}
