package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/pkg/logging"
	authmw "github.com/Skotchmaster/loja/pkg/middleware/auth"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	UserHandler    *UserHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	PaymentHandler *PaymentHTTP
	Store          Pinger
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	authMw := authmw.New(d.JWTSecret)
	admin := authmw.RequireRole(models.RoleAdmin)

	e.GET("/config", d.PaymentHandler.Config)

	e.POST("/usuarios", d.UserHandler.Register, authMw.Optional)
	e.POST("/login", d.UserHandler.Login)

	e.GET("/produtos", d.CatalogHandler.ListProducts)
	e.GET("/produtos/busca", d.CatalogHandler.Search)
	e.GET("/produtos/:id", d.CatalogHandler.GetProduct)

	auth := authMw.RequireAuth

	e.GET("/usuarios", d.UserHandler.ListUsers, auth)
	e.DELETE("/usuarios/:id", d.UserHandler.DeleteUser, auth, admin)
	e.DELETE("/admin/usuario/:id", d.UserHandler.DeleteUser, auth, admin)

	e.POST("/produtos", d.CatalogHandler.CreateProduct, auth, admin)
	e.PUT("/produtos/:id", d.CatalogHandler.UpdateProduct, auth, admin)
	e.DELETE("/produtos/:id", d.CatalogHandler.DeleteProduct, auth, admin)

	e.POST("/adicionarItem", d.CartHandler.AddItem, auth)
	e.GET("/carrinho", d.CartHandler.GetCart, auth)
	e.GET("/carrinho/total", d.CartHandler.Total, auth)
	e.PUT("/carrinho/:productId/quantidade", d.CartHandler.UpdateQuantity, auth)
	e.PATCH("/carrinho/quantidade", d.CartHandler.UpdateQuantity, auth)
	e.DELETE("/carrinho/item", d.CartHandler.RemoveItem, auth)
	e.DELETE("/carrinho/:itemId", d.CartHandler.RemoveItem, auth)
	e.DELETE("/carrinho", d.CartHandler.ClearCart, auth)
	e.GET("/admin/carrinhos", d.CartHandler.ListCarts, auth, admin)
	e.DELETE("/admin/carrinho/:id", d.CartHandler.DeleteUserCart, auth, admin)

	e.POST("/create-payment-intent", d.PaymentHandler.CreatePaymentIntent, auth)
	e.POST("/criar-pagamento-cartao", d.PaymentHandler.CreateCardPayment, auth)
	e.GET("/pagamentos", d.PaymentHandler.ListPayments, auth)
}

func (d *Deps) ready(c echo.Context) error {
	if d.Store == nil {
		return c.NoContent(http.StatusOK)
	}
	if err := d.Store.Ping(c.Request().Context()); err != nil {
		logging.FromContext(c.Request().Context()).Warn("readiness_failed", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
