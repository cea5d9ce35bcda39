package repo

import (
	"context"

	"github.com/Skotchmaster/loja/internal/models"
)

func (r *GormRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error, "payment")
}

func (r *GormRepo) ListPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	payments := []models.Payment{}
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, translate(err, "payments")
	}
	return payments, nil
}
