// Package repo is the relational store: postgres in production, sqlite in tests.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/service"
	"github.com/Skotchmaster/loja/pkg/db"
)

var _ service.Store = (*GormRepo)(nil)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) AutoMigrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return db.Ping(ctx, r.DB)
}

func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.Validation("invalid id", fmt.Sprintf("%q is not a valid id", id))
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// translate maps driver errors onto apperror kinds.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(what)
	case isUniqueViolation(err):
		return apperror.Conflict(what + " already exists")
	}
	return fmt.Errorf("%s: %w", what, err)
}
