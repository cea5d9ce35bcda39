package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/service"
)

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *GormRepo) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Preload("Items", orderedItems).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, translate(err, "cart")
	}
	return &cart, nil
}

// MutateCart locks the cart row for the duration of fn, rewrites the item
// list and bumps the version. Concurrent writers for the same user queue on
// the row lock; the version guard catches writers that bypass it.
func (r *GormRepo) MutateCart(ctx context.Context, userID string, create bool, fn service.CartMutation) (*models.Cart, bool, error) {
	var (
		out     models.Cart
		created bool
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if create {
			fresh := models.Cart{UserID: userID, LastUpdated: time.Now().UTC()}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoNothing: true,
			}).Create(&fresh)
			if res.Error != nil {
				return res.Error
			}
			created = res.RowsAffected > 0
		}

		var cart models.Cart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		if err := orderedItems(tx.Where("cart_id = ?", cart.ID)).Find(&cart.Items).Error; err != nil {
			return err
		}

		prev := cart.Version
		if err := fn(&cart); err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
			cart.Items[i].Position = i
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}

		res := tx.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, prev).
			Updates(map[string]any{
				"total":        cart.Total,
				"version":      prev + 1,
				"last_updated": cart.LastUpdated,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("cart modified concurrently")
		}
		cart.Version = prev + 1

		out = cart
		return nil
	})
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrConflict) {
			return nil, false, err
		}
		return nil, false, translate(err, "cart")
	}
	return &out, created, nil
}

func (r *GormRepo) DeleteCart(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return translate(err, "cart")
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		if err := tx.Delete(&cart).Error; err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return nil
	})
}

func (r *GormRepo) ListCarts(ctx context.Context) ([]models.Cart, error) {
	carts := []models.Cart{}
	if err := r.DB.WithContext(ctx).Preload("Items", orderedItems).Order("last_updated DESC").Find(&carts).Error; err != nil {
		return nil, translate(err, "carts")
	}
	return carts, nil
}
