// Package transport holds request and response bodies. Every request type
// validates itself before it reaches the services.
package transport

import (
	"math"
	"net/mail"
	"strings"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
)

const (
	DefaultCurrency = "brl"
	maxAge          = 150

	// MaxQuantity bounds a single cart line.
	MaxQuantity = 9999
	// MaxAmount is the largest charge the payment provider accepts, in minor units.
	MaxAmount int64 = 99999999
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Age      *int   `json:"age"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	var d apperror.Details
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))

	if r.Name == "" {
		d.Add("name is required")
	}
	switch {
	case r.Age == nil:
		d.Add("age is required")
	case *r.Age < 0 || *r.Age > maxAge:
		d.Add("age must be between 0 and %d", maxAge)
	}
	if r.Email == "" {
		d.Add("email is required")
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		d.Add("email is not a valid address")
	}
	if r.Password == "" {
		d.Add("password is required")
	}
	return d.Err("invalid user")
}

// EffectiveRole is the role to store. Anything other than "admin" is "user".
func (r *RegisterRequest) EffectiveRole() string {
	if r.Role == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var d apperror.Details
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		d.Add("email is required")
	}
	if r.Password == "" {
		d.Add("password is required")
	}
	return d.Err("invalid login")
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

type CreateProductRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	PhotoURL    string   `json:"photoUrl"`
	Category    *string  `json:"category,omitempty"`
}

func (r *CreateProductRequest) Validate() error {
	var d apperror.Details
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.PhotoURL = strings.TrimSpace(r.PhotoURL)

	if r.Name == "" {
		d.Add("name is required")
	}
	if r.Price == nil {
		d.Add("price is required")
	} else {
		validatePrice(&d, *r.Price)
	}
	if r.Description == "" {
		d.Add("description is required")
	}
	if r.PhotoURL == "" {
		d.Add("photoUrl is required")
	}
	if r.Category != nil {
		c := strings.TrimSpace(*r.Category)
		r.Category = &c
	}
	return d.Err("invalid product")
}

func (r *CreateProductRequest) Product() *models.Product {
	p := &models.Product{
		Name:        r.Name,
		Description: r.Description,
		PhotoURL:    r.PhotoURL,
		Category:    r.Category,
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	return p
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	PhotoURL    *string  `json:"photoUrl,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// Validate checks only the fields that were supplied.
func (r *UpdateProductRequest) Validate() error {
	var d apperror.Details
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		d.Add("name must not be empty")
	}
	if r.Price != nil {
		validatePrice(&d, *r.Price)
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		d.Add("description must not be empty")
	}
	if r.PhotoURL != nil && strings.TrimSpace(*r.PhotoURL) == "" {
		d.Add("photoUrl must not be empty")
	}
	return d.Err("invalid product")
}

func (r *UpdateProductRequest) Patch() models.ProductPatch {
	return models.ProductPatch{
		Name:        trimmed(r.Name),
		Price:       r.Price,
		Description: trimmed(r.Description),
		PhotoURL:    trimmed(r.PhotoURL),
		Category:    trimmed(r.Category),
	}
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

func (r *AddItemRequest) Validate() error {
	var d apperror.Details
	r.ProductID = strings.TrimSpace(r.ProductID)
	if r.ProductID == "" {
		d.Add("productId is required")
	}
	validateQuantity(&d, r.Quantity)
	return d.Err("invalid item")
}

// UpdateQuantityRequest is bound from the path on PUT and from the body on PATCH.
type UpdateQuantityRequest struct {
	ProductID string `json:"productId" param:"productId"`
	Quantity  *int   `json:"quantity"`
}

func (r *UpdateQuantityRequest) Validate() error {
	var d apperror.Details
	r.ProductID = strings.TrimSpace(r.ProductID)
	if r.ProductID == "" {
		d.Add("productId is required")
	}
	validateQuantity(&d, r.Quantity)
	return d.Err("invalid quantity")
}

type RemoveItemRequest struct {
	ProductID string `json:"productId" param:"itemId"`
}

func (r *RemoveItemRequest) Validate() error {
	r.ProductID = strings.TrimSpace(r.ProductID)
	if r.ProductID == "" {
		return apperror.Validation("invalid item", "productId is required")
	}
	return nil
}

type TotalResponse struct {
	Total float64 `json:"total"`
}

type PaymentIntentRequest struct {
	Amount   *int64 `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// Validate checks the currency and, when requireAmount is set, the amount.
func (r *PaymentIntentRequest) Validate(requireAmount bool) error {
	var d apperror.Details
	r.Currency = strings.ToLower(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	if len(r.Currency) != 3 || strings.Trim(r.Currency, "abcdefghijklmnopqrstuvwxyz") != "" {
		d.Add("currency must be a 3-letter ISO code")
	}
	if requireAmount {
		switch {
		case r.Amount == nil:
			d.Add("amount is required")
		case *r.Amount <= 0:
			d.Add("amount must be a positive integer in minor units")
		case *r.Amount > MaxAmount:
			d.Add("amount must be at most %d", MaxAmount)
		}
	}
	return d.Err("invalid payment")
}

type ConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
}

type SearchMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type SearchResponse struct {
	Data []models.Product `json:"data"`
	Meta SearchMeta       `json:"meta"`
}

func validatePrice(d *apperror.Details, price float64) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		d.Add("price must be greater than 0")
	}
}

func validateQuantity(d *apperror.Details, q *int) {
	switch {
	case q == nil:
		d.Add("quantity is required")
	case *q < 1:
		d.Add("quantity must be an integer >= 1")
	case *q > MaxQuantity:
		d.Add("quantity must be at most %d", MaxQuantity)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
