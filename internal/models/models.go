package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"         bson:"_id"           json:"id"`
	Name         string    `gorm:"not null"                   bson:"name"          json:"name"`
	Age          int       `gorm:"not null"                   bson:"age"           json:"age"`
	Email        string    `gorm:"uniqueIndex;not null"       bson:"email"         json:"email"`
	PasswordHash string    `gorm:"not null"                   bson:"password_hash" json:"-"`
	Role         string    `gorm:"not null;default:user"      bson:"role"          json:"role"`
	CreatedAt    time.Time `gorm:"not null"                   bson:"created_at"    json:"createdAt"`
}

type Product struct {
	ID          string    `gorm:"primaryKey;size:36"  bson:"_id"                json:"id"`
	Name        string    `gorm:"not null"            bson:"name"               json:"name"`
	Price       float64   `gorm:"not null"            bson:"price"              json:"price"`
	Description string    `gorm:"not null"            bson:"description"        json:"description"`
	PhotoURL    string    `gorm:"not null"            bson:"photo_url"          json:"photoUrl"`
	Category    *string   `                           bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt   time.Time `gorm:"not null"            bson:"created_at"         json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null"            bson:"updated_at"         json:"updatedAt"`
}

type Cart struct {
	ID          string     `gorm:"primaryKey;size:36"                             bson:"_id"          json:"id"`
	UserID      string     `gorm:"uniqueIndex;not null;size:64"                   bson:"user_id"      json:"userId"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"  bson:"items"        json:"items"`
	Total       float64    `gorm:"not null;default:0"                             bson:"total"        json:"total"`
	Version     int64      `gorm:"not null;default:0"                             bson:"version"      json:"-"`
	LastUpdated time.Time  `gorm:"not null"                                       bson:"last_updated" json:"lastUpdated"`
}

type CartItem struct {
	ID        string  `gorm:"primaryKey;size:36"                 bson:"-"          json:"-"`
	CartID    string  `gorm:"index;not null;size:36"             bson:"-"          json:"-"`
	Position  int     `gorm:"not null"                           bson:"-"          json:"-"`
	ProductID string  `gorm:"not null;size:64"                   bson:"product_id" json:"productId"`
	Quantity  int     `gorm:"not null;check:quantity > 0"        bson:"quantity"   json:"quantity"`
	UnitPrice float64 `gorm:"not null"                           bson:"unit_price" json:"unitPrice"`
	Name      string  `gorm:"not null"                           bson:"name"       json:"name"`
}

// CartWithOwner is a cart joined with its owner's display name.
type CartWithOwner struct {
	Cart
	OwnerName string `json:"ownerName"`
}

type Payment struct {
	ID        string    `gorm:"primaryKey;size:36"   bson:"_id"        json:"id"`
	UserID    string    `gorm:"index;not null;size:64" bson:"user_id"  json:"userId"`
	IntentID  string    `gorm:"uniqueIndex;not null" bson:"intent_id"  json:"intentId"`
	Amount    int64     `gorm:"not null"             bson:"amount"     json:"amount"`
	Currency  string    `gorm:"not null;size:3"      bson:"currency"   json:"currency"`
	Status    string    `gorm:"not null"             bson:"status"     json:"status"`
	CreatedAt time.Time `gorm:"not null"             bson:"created_at" json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// All lists the gorm models in migration order.
func All() []any {
	return []any{&User{}, &Product{}, &Cart{}, &CartItem{}, &Payment{}}
}

// ProductPatch holds the fields supplied to a partial update. Nil means unchanged.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
	PhotoURL    *string
	Category    *string
}

func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.PhotoURL != nil {
		prod.PhotoURL = *p.PhotoURL
	}
	if p.Category != nil {
		c := *p.Category
		prod.Category = &c
	}
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.PhotoURL == nil && p.Category == nil
}
