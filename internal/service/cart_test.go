package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/events"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/repo"
	"github.com/Skotchmaster/loja/internal/service"
	"github.com/Skotchmaster/loja/internal/testutil"
	"github.com/Skotchmaster/loja/internal/transport"
)

func intPtr(v int) *int { return &v }

func newProduct(t *testing.T, r *repo.GormRepo, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Description: name + " description", PhotoURL: "https://img/" + name}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func newCartService(t *testing.T) (*service.CartService, *repo.GormRepo, *events.Recorder) {
	t.Helper()
	r := testutil.NewRepo(t)
	rec := events.NewRecorder(0)
	return &service.CartService{Carts: r, Products: r, Users: r, Events: rec}, r, rec
}

func TestCartService_Scenario(t *testing.T) {
	t.Parallel()

	svc, r, rec := newCartService(t)
	ctx := context.Background()
	p := newProduct(t, r, "caneca", 10.00)

	cart, created, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: p.ID, Quantity: intPtr(2)})
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 10.00, cart.Items[0].UnitPrice)
	assert.Equal(t, "caneca", cart.Items[0].Name)
	assert.InDelta(t, 20.0, cart.Total, 1e-9)

	cart, err = svc.UpdateQuantity(ctx, "u1", transport.UpdateQuantityRequest{ProductID: p.ID, Quantity: intPtr(5)})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, cart.Total, 1e-9)

	total, err := svc.Total(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, total, 1e-9)

	cart, err = svc.RemoveItem(ctx, "u1", transport.RemoveItemRequest{ProductID: p.ID})
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	stored, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.Items)

	msgs := rec.Messages(service.TopicCartEvents)
	require.Len(t, msgs, 3)
	assert.Equal(t, "cart_item_added", msgs[0].Event["type"])
	assert.Equal(t, "cart_item_updated", msgs[1].Event["type"])
	assert.Equal(t, "cart_item_removed", msgs[2].Event["type"])
}

func TestCartService_AddItem_MergesAndKeepsOrder(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCartService(t)
	ctx := context.Background()
	a := newProduct(t, r, "camiseta", 49.90)
	b := newProduct(t, r, "bone", 29.90)

	_, created, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: a.ID, Quantity: intPtr(1)})
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: b.ID, Quantity: intPtr(1)})
	require.NoError(t, err)
	assert.False(t, created)

	cart, created, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: a.ID, Quantity: intPtr(2)})
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, a.ID, cart.Items[0].ProductID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, b.ID, cart.Items[1].ProductID)
	assert.InDelta(t, 3*49.90+29.90, cart.Total, 1e-9)
}

func TestCartService_AddItem_ConcurrentAddsMerge(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCartService(t)
	ctx := context.Background()
	p := newProduct(t, r, "caneca", 19.90)

	var g errgroup.Group
	createdCount := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, created, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: p.ID, Quantity: intPtr(1)})
			createdCount <- created
			return err
		})
	}
	require.NoError(t, g.Wait())
	close(createdCount)

	n := 0
	for c := range createdCount {
		if c {
			n++
		}
	}
	assert.Equal(t, 1, n)

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 39.80, cart.Total, 1e-9)
}

func TestCartService_Errors(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCartService(t)
	ctx := context.Background()
	p := newProduct(t, r, "caneca", 10)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{
			name: "unknown product",
			call: func() error {
				_, _, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: "00000000-0000-0000-0000-000000000000", Quantity: intPtr(1)})
				return err
			},
			want: apperror.ErrNotFound,
		},
		{
			name: "zero quantity",
			call: func() error {
				_, _, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: p.ID, Quantity: intPtr(0)})
				return err
			},
			want: apperror.ErrValidation,
		},
		{
			name: "quantity above limit",
			call: func() error {
				_, _, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: p.ID, Quantity: intPtr(transport.MaxQuantity + 1)})
				return err
			},
			want: apperror.ErrValidation,
		},
		{
			name: "missing quantity",
			call: func() error {
				_, _, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: p.ID})
				return err
			},
			want: apperror.ErrValidation,
		},
		{
			name: "update without cart",
			call: func() error {
				_, err := svc.UpdateQuantity(ctx, "nobody", transport.UpdateQuantityRequest{ProductID: p.ID, Quantity: intPtr(1)})
				return err
			},
			want: apperror.ErrNotFound,
		},
		{
			name: "remove without cart",
			call: func() error {
				_, err := svc.RemoveItem(ctx, "nobody", transport.RemoveItemRequest{ProductID: p.ID})
				return err
			},
			want: apperror.ErrNotFound,
		},
		{
			name: "total without cart",
			call: func() error {
				_, err := svc.Total(ctx, "nobody")
				return err
			},
			want: apperror.ErrNotFound,
		},
		{
			name: "clear without cart",
			call: func() error { return svc.ClearCart(ctx, "nobody") },
			want: apperror.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.call(), tt.want)
		})
	}
}

func TestCartService_AddItem_QuantityLimit(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCartService(t)
	ctx := context.Background()
	p := newProduct(t, r, "caneca", 10)

	_, _, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: p.ID, Quantity: intPtr(transport.MaxQuantity)})
	require.NoError(t, err)

	_, _, err = svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: p.ID, Quantity: intPtr(1)})
	require.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateQuantity(ctx, "u1", transport.UpdateQuantityRequest{ProductID: p.ID, Quantity: intPtr(transport.MaxQuantity + 1)})
	require.ErrorIs(t, err, apperror.ErrValidation)

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, transport.MaxQuantity, cart.Items[0].Quantity)
	assert.Equal(t, float64(10*transport.MaxQuantity), cart.Total)
}

func TestCartService_UpdateQuantity_UnknownItem(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCartService(t)
	ctx := context.Background()
	a := newProduct(t, r, "caneca", 10)
	b := newProduct(t, r, "bone", 20)

	_, _, err := svc.AddItem(ctx, "u1", transport.AddItemRequest{ProductID: a.ID, Quantity: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, "u1", transport.UpdateQuantityRequest{ProductID: b.ID, Quantity: intPtr(3)})
	require.ErrorIs(t, err, apperror.ErrNotFound)

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartService_ClearAndListCarts(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCartService(t)
	ctx := context.Background()
	p := newProduct(t, r, "caneca", 10)

	owner := &models.User{Name: "Ana", Age: 30, Email: "ana@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, owner))

	_, _, err := svc.AddItem(ctx, owner.ID, transport.AddItemRequest{ProductID: p.ID, Quantity: intPtr(1)})
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, "ghost", transport.AddItemRequest{ProductID: p.ID, Quantity: intPtr(2)})
	require.NoError(t, err)

	carts, err := svc.ListCarts(ctx)
	require.NoError(t, err)
	require.Len(t, carts, 2)

	names := map[string]string{}
	for _, c := range carts {
		names[c.UserID] = c.OwnerName
	}
	assert.Equal(t, "Ana", names[owner.ID])
	assert.Equal(t, "", names["ghost"])

	require.NoError(t, svc.ClearCart(ctx, owner.ID))
	_, err = svc.GetCart(ctx, owner.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	carts, err = svc.ListCarts(ctx)
	require.NoError(t, err)
	assert.Len(t, carts, 1)
}
