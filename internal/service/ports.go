package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/loja/internal/models"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ProductRepo interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

// CartMutation edits a cart in place. Returning an error aborts the write.
type CartMutation func(c *models.Cart) error

type CartRepo interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	// MutateCart applies fn to the user's cart as one atomic read-modify-write.
	// With create set, a missing cart is created empty before fn runs and the
	// returned bool reports whether that happened.
	MutateCart(ctx context.Context, userID string, create bool, fn CartMutation) (*models.Cart, bool, error)
	DeleteCart(ctx context.Context, userID string) error
	ListCarts(ctx context.Context) ([]models.Cart, error)
}

type PaymentRepo interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context, userID string) ([]models.Payment, error)
}

// Store is everything a persistence backend provides.
type Store interface {
	UserRepo
	ProductRepo
	CartRepo
	PaymentRepo
	Ping(ctx context.Context) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

type PaymentIntentParams struct {
	Amount      int64
	Currency    string
	CardOnly    bool
	UserID      string
	Description string
}

type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (*PaymentIntent, error)
}
