package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error, "product")
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := parseID(id); err != nil {
		return nil, apperror.NotFound("product")
	}
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	items := []models.Product{}
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, translate(err, "products")
	}
	return items, nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if err := parseID(id); err != nil {
		return nil, apperror.NotFound("product")
	}

	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&prod).Error; err != nil {
			return err
		}
		patch.Apply(&prod)
		return tx.Save(&prod).Error
	})
	if err != nil {
		return nil, translate(err, "product")
	}
	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return apperror.NotFound("product")
	}
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product")
	}
	return nil
}

// SearchProducts is the fallback used when no search index is configured.
func (r *GormRepo) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	matching := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&models.Product{}).
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := matching().Count(&total).Error; err != nil {
		return 0, nil, translate(err, "products")
	}

	items := []models.Product{}
	if err := matching().Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, translate(err, "products")
	}
	return total, items, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, translate(err, "products")
	}
	return n, nil
}
