package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/testutil"
)

func TestGormRepo_Users(t *testing.T) {
	t.Parallel()

	r := testutil.NewRepo(t)
	ctx := context.Background()

	u := &models.User{Name: "Ana", Age: 30, Email: "ana@example.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	dup := &models.User{Name: "Ana 2", Age: 31, Email: "ana@example.com", PasswordHash: "h", Role: models.RoleUser}
	require.ErrorIs(t, r.CreateUser(ctx, dup), apperror.ErrConflict)

	got, err := r.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = r.GetUserByEmail(ctx, "bob@example.com")
	require.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = r.GetUser(ctx, "bad")
	require.ErrorIs(t, err, apperror.ErrValidation)

	require.ErrorIs(t, r.DeleteUser(ctx, "bad"), apperror.ErrValidation)
	require.NoError(t, r.DeleteUser(ctx, u.ID))
	require.ErrorIs(t, r.DeleteUser(ctx, u.ID), apperror.ErrNotFound)
}

func TestGormRepo_Products(t *testing.T) {
	t.Parallel()

	r := testutil.NewRepo(t)
	ctx := context.Background()

	p := &models.Product{Name: "Caneca", Price: 19.9, Description: "Caneca de ceramica", PhotoURL: "p"}
	require.NoError(t, r.CreateProduct(ctx, p))

	name := "Caneca grande"
	updated, err := r.UpdateProduct(ctx, p.ID, models.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Caneca grande", updated.Name)
	assert.Equal(t, 19.9, updated.Price)

	_, err = r.UpdateProduct(ctx, "00000000-0000-0000-0000-000000000000", models.ProductPatch{Name: &name})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = r.GetProduct(ctx, "not-an-id")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	total, items, err := r.SearchProducts(ctx, "CERAMICA", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	n, err := r.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	require.ErrorIs(t, r.DeleteProduct(ctx, p.ID), apperror.ErrNotFound)
}

func TestGormRepo_MutateCart(t *testing.T) {
	t.Parallel()

	r := testutil.NewRepo(t)
	ctx := context.Background()

	_, _, err := r.MutateCart(ctx, "u1", false, func(c *models.Cart) error { return nil })
	require.ErrorIs(t, err, apperror.ErrNotFound)

	cart, created, err := r.MutateCart(ctx, "u1", true, func(c *models.Cart) error {
		c.Items = append(c.Items,
			models.CartItem{ProductID: "b", Quantity: 1, UnitPrice: 2, Name: "B"},
			models.CartItem{ProductID: "a", Quantity: 3, UnitPrice: 1, Name: "A"},
		)
		c.Total = 5
		return nil
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), cart.Version)

	stored, err := r.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "b", stored.Items[0].ProductID)
	assert.Equal(t, "a", stored.Items[1].ProductID)
	assert.Equal(t, 5.0, stored.Total)

	abort := errors.New("abort")
	_, _, err = r.MutateCart(ctx, "u1", true, func(c *models.Cart) error {
		c.Items = nil
		return abort
	})
	require.ErrorIs(t, err, abort)

	stored, err = r.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, int64(1), stored.Version)

	_, created, err = r.MutateCart(ctx, "u1", true, func(c *models.Cart) error { return nil })
	require.NoError(t, err)
	assert.False(t, created)

	carts, err := r.ListCarts(ctx)
	require.NoError(t, err)
	assert.Len(t, carts, 1)

	require.NoError(t, r.DeleteCart(ctx, "u1"))
	require.ErrorIs(t, r.DeleteCart(ctx, "u1"), apperror.ErrNotFound)
}

func TestGormRepo_Payments(t *testing.T) {
	t.Parallel()

	r := testutil.NewRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, r.CreatePayment(ctx, &models.Payment{UserID: "u1", IntentID: "pi_1", Amount: 100, Currency: "brl", Status: "created", CreatedAt: now}))
	require.NoError(t, r.CreatePayment(ctx, &models.Payment{UserID: "u1", IntentID: "pi_2", Amount: 200, Currency: "brl", Status: "created", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, r.CreatePayment(ctx, &models.Payment{UserID: "u2", IntentID: "pi_3", Amount: 300, Currency: "brl", Status: "created", CreatedAt: now}))
	require.ErrorIs(t, r.CreatePayment(ctx, &models.Payment{UserID: "u2", IntentID: "pi_3", Amount: 1, Currency: "brl", Status: "created", CreatedAt: now}), apperror.ErrConflict)

	got, err := r.ListPayments(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pi_2", got[0].IntentID)
}
