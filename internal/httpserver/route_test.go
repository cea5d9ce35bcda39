package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/loja/internal/httpserver"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/service"
	"github.com/Skotchmaster/loja/internal/testutil"
	"github.com/Skotchmaster/loja/internal/transport"
)

var jwtSecret = []byte("test-jwt-secret")

type stubProvider struct{ amounts []int64 }

func (s *stubProvider) CreatePaymentIntent(ctx context.Context, p service.PaymentIntentParams) (*service.PaymentIntent, error) {
	s.amounts = append(s.amounts, p.Amount)
	return &service.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

type testEnv struct {
	e        *echo.Echo
	provider *stubProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := testutil.NewRepo(t)
	provider := &stubProvider{}

	e := echo.New()
	e.HTTPErrorHandler = httpserver.ErrorHandler
	httpserver.Register(e, &httpserver.Deps{
		UserHandler: &httpserver.UserHTTP{Svc: &service.UserService{
			Users: store, JWTSecret: jwtSecret, AllowRoleOnRegister: true,
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Products: store}},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Carts: store, Products: store, Users: store}},
		PaymentHandler: &httpserver.PaymentHTTP{Svc: &service.PaymentService{
			Provider: provider, Carts: store, Payments: store, PublishableKey: "pk_test_1",
		}},
		Store:     store,
		JWTSecret: jwtSecret,
	})
	return &testEnv{e: e, provider: provider}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (env *testEnv) register(t *testing.T, email, role string) models.User {
	t.Helper()

	body := map[string]any{"name": "Test", "age": 30, "email": email, "password": "pw123"}
	if role != "" {
		body["role"] = role
	}
	rec := env.do(t, http.MethodPost, "/usuarios", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.User](t, rec)
}

func (env *testEnv) login(t *testing.T, email string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/login", "", map[string]any{"email": email, "password": "pw123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]string](t, rec)["token"]
}

func (env *testEnv) registerAndLogin(t *testing.T, email, role string) string {
	t.Helper()
	env.register(t, email, role)
	return env.login(t, email)
}

func TestRoles(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := map[string]any{"name": "Caneca", "price": 10.0, "description": "d", "photoUrl": "https://img/c.png"}

	rec := env.do(t, http.MethodPost, "/produtos", "", product)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/produtos", "garbage", product)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := env.registerAndLogin(t, "user@example.com", "")
	rec = env.do(t, http.MethodPost, "/produtos", userToken, product)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := env.registerAndLogin(t, "admin@example.com", "admin")
	rec = env.do(t, http.MethodPost, "/produtos", adminToken, product)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/usuarios", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]map[string]any](t, rec)
	require.Len(t, users, 2)
	assert.NotContains(t, users[0], "passwordHash")

	rec = env.do(t, http.MethodGet, "/admin/carrinhos", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodGet, "/admin/carrinhos", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteUserRoles(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	a := env.register(t, "a@example.com", "")
	assert.Equal(t, models.RoleUser, a.Role)
	b := env.register(t, "b@example.com", "admin")
	assert.Equal(t, models.RoleAdmin, b.Role)
	c := env.register(t, "c@example.com", "manager")
	assert.Equal(t, models.RoleUser, c.Role)

	aToken := env.login(t, a.Email)
	bToken := env.login(t, b.Email)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{name: "anonymous", path: "/usuarios/" + b.ID, want: http.StatusUnauthorized},
		{name: "user deletes admin", path: "/usuarios/" + b.ID, token: aToken, want: http.StatusForbidden},
		{name: "user on admin route", path: "/admin/usuario/" + c.ID, token: aToken, want: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin/usuario/" + c.ID, token: bToken, want: http.StatusOK},
		{name: "already deleted", path: "/admin/usuario/" + c.ID, token: bToken, want: http.StatusNotFound},
		{name: "admin deletes self", path: "/usuarios/" + b.ID, token: bToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodDelete, tt.path, tt.token, nil)
		assert.Equal(t, tt.want, rec.Code, "%s: %s", tt.name, rec.Body.String())
	}

	rec := env.do(t, http.MethodGet, "/usuarios", aToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]models.User](t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, a.ID, users[0].ID)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/nao-existe", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/carrinho/x/y/z", "", nil).Code)
}

func TestRegisterAndLoginErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.registerAndLogin(t, "ana@example.com", "")

	rec := env.do(t, http.MethodPost, "/usuarios", "", map[string]any{
		"name": "Ana", "age": 30, "email": "ana@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/usuarios", "", map[string]any{"name": "Ana"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["details"])

	tests := []struct {
		name string
		body any
	}{
		{name: "wrong password", body: map[string]any{"email": "ana@example.com", "password": "nope"}},
		{name: "unknown email", body: map[string]any{"email": "bob@example.com", "password": "pw123"}},
		{name: "empty body", body: map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/login", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	wrong := env.do(t, http.MethodPost, "/login", "", map[string]any{"email": "ana@example.com", "password": "nope"})
	unknown := env.do(t, http.MethodPost, "/login", "", map[string]any{"email": "bob@example.com", "password": "pw123"})
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestCartFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	adminToken := env.registerAndLogin(t, "admin@example.com", "admin")
	userToken := env.registerAndLogin(t, "user@example.com", "")

	rec := env.do(t, http.MethodPost, "/produtos", adminToken, map[string]any{
		"name": "Caneca", "price": 10.00, "description": "d", "photoUrl": "https://img/c.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	productID := decode[models.Product](t, rec).ID

	rec = env.do(t, http.MethodGet, "/carrinho", userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/adicionarItem", userToken, map[string]any{"productId": productID, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cart := decode[models.Cart](t, rec)
	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 20.0, cart.Total, 1e-9)

	rec = env.do(t, http.MethodPost, "/adicionarItem", userToken, map[string]any{"productId": productID, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 30.0, decode[models.Cart](t, rec).Total, 1e-9)

	rec = env.do(t, http.MethodPut, "/carrinho/"+productID+"/quantidade", userToken, map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.InDelta(t, 50.0, decode[models.Cart](t, rec).Total, 1e-9)

	rec = env.do(t, http.MethodGet, "/carrinho/total", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 50.0, decode[map[string]float64](t, rec)["total"], 1e-9)

	rec = env.do(t, http.MethodPatch, "/carrinho/quantidade", userToken, map[string]any{"productId": productID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/criar-pagamento-cartao", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []int64{5000}, env.provider.amounts)

	rec = env.do(t, http.MethodDelete, "/carrinho/item", userToken, map[string]any{"productId": productID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.JSONEq(t, "[]", string(raw["items"]))
	assert.JSONEq(t, "0", string(raw["total"]))

	rec = env.do(t, http.MethodDelete, "/carrinho/"+productID, userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/carrinho", userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/carrinho", userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartQuantityLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	adminToken := env.registerAndLogin(t, "admin@example.com", "admin")
	userToken := env.registerAndLogin(t, "user@example.com", "")

	rec := env.do(t, http.MethodPost, "/produtos", adminToken, map[string]any{
		"name": "Relogio", "price": 20000.0, "description": "d", "photoUrl": "https://img/r.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	productID := decode[models.Product](t, rec).ID

	rec = env.do(t, http.MethodPost, "/adicionarItem", userToken, map[string]any{"productId": productID, "quantity": int64(math.MaxInt64)})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/adicionarItem", userToken, map[string]any{"productId": productID, "quantity": transport.MaxQuantity})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/adicionarItem", userToken, map[string]any{"productId": productID, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/criar-pagamento-cartao", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Empty(t, env.provider.amounts)

	rec = env.do(t, http.MethodGet, "/carrinho", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[models.Cart](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, transport.MaxQuantity, cart.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.registerAndLogin(t, "user@example.com", "")

	rec := env.do(t, http.MethodPost, "/adicionarItem", token, map[string]any{
		"productId": "00000000-0000-0000-0000-000000000000", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/adicionarItem", "", map[string]any{"productId": "x", "quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentIntentAndConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.registerAndLogin(t, "user@example.com", "")

	rec := env.do(t, http.MethodPost, "/create-payment-intent", token, map[string]any{"amount": 1999})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	intent := decode[map[string]string](t, rec)
	assert.Equal(t, "pi_test", intent["id"])
	assert.Equal(t, "pi_test_secret", intent["clientSecret"])

	rec = env.do(t, http.MethodPost, "/create-payment-intent", token, map[string]any{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/pagamentos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Payment](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/config", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pk_test_1", decode[map[string]string](t, rec)["publishableKey"])
}

func TestProductRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	admin := env.registerAndLogin(t, "admin@example.com", "admin")

	rec := env.do(t, http.MethodPost, "/produtos", admin, map[string]any{"name": "Caneca", "price": 0, "description": "d", "photoUrl": "p"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/produtos", admin, map[string]any{"name": "Caneca", "price": 19.9, "description": "d", "photoUrl": "p"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.Product](t, rec).ID

	rec = env.do(t, http.MethodPut, "/produtos/"+id, admin, map[string]any{"price": 21.5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 21.5, decode[models.Product](t, rec).Price)

	rec = env.do(t, http.MethodGet, "/produtos/busca?q=can&page=1&size=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}](t, rec)
	assert.Equal(t, int64(1), res.Meta.Total)
	assert.Len(t, res.Data, 1)

	rec = env.do(t, http.MethodGet, "/produtos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Product](t, rec), 1)

	rec = env.do(t, http.MethodDelete, "/produtos/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/produtos/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodPut, "/produtos/"+id, admin, map[string]any{"price": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}
