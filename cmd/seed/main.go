package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/config"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/mongorepo"
	"github.com/Skotchmaster/loja/internal/repo"
	"github.com/Skotchmaster/loja/internal/service"
	"github.com/Skotchmaster/loja/internal/transport"
	"github.com/Skotchmaster/loja/pkg/db"
	"github.com/Skotchmaster/loja/pkg/logging"
)

const (
	adminEmail    = "admin@local"
	adminPassword = "admin123"
)

type seedProduct struct {
	name, description, photo string
	price                    float64
}

var products = []seedProduct{
	{name: "Camiseta", description: "Camiseta de algodão", photo: "https://picsum.photos/seed/camiseta/400", price: 49.90},
	{name: "Caneca", description: "Caneca de cerâmica 300ml", photo: "https://picsum.photos/seed/caneca/400", price: 19.90},
	{name: "Boné", description: "Boné ajustável", photo: "https://picsum.photos/seed/bone/400", price: 29.90},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("notice: .env not loaded, using process environment: %v", err)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "cmd", "seed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	store, closeStore, err := open(ctx, cfg)
	if err != nil {
		logger.Error("seed_open_store_failed", "error", err)
		os.Exit(1)
	}

	seedErr := seed(ctx, store)
	if err := closeStore(); err != nil {
		logger.Warn("seed_close_store_failed", "error", err)
	}
	if seedErr != nil {
		logger.Error("seed_failed", "error", seedErr)
		os.Exit(1)
	}
	logger.Info("seed_complete")
}

func seed(ctx context.Context, store service.Store) error {
	l := logging.FromContext(ctx)
	users := &service.UserService{Users: store, AllowRoleOnRegister: true}
	catalog := &service.CatalogService{Products: store}

	age := 30
	_, err := users.Register(ctx, transport.RegisterRequest{
		Name:     "Administrador",
		Age:      &age,
		Email:    adminEmail,
		Password: adminPassword,
		Role:     models.RoleAdmin,
	}, true)
	switch {
	case err == nil:
		l.Info("seed_admin_created", "email", adminEmail)
	case errors.Is(err, apperror.ErrConflict):
		l.Info("seed_admin_exists", "email", adminEmail)
	default:
		return err
	}

	n, err := store.CountProducts(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		l.Info("seed_catalog_not_empty", "products", n)
		return nil
	}
	for _, sp := range products {
		price := sp.price
		p, err := catalog.CreateProduct(ctx, transport.CreateProductRequest{
			Name:        sp.name,
			Price:       &price,
			Description: sp.description,
			PhotoURL:    sp.photo,
		})
		if err != nil {
			return err
		}
		l.Info("seed_product_created", "product_id", p.ID, "name", p.Name)
	}
	return nil
}

func open(ctx context.Context, cfg *config.Config) (service.Store, func() error, error) {
	if cfg.StoreDriver == config.DriverMongo {
		client, database, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		r := mongorepo.New(database)
		if err := r.EnsureIndexes(ctx); err != nil {
			return nil, nil, errors.Join(err, client.Disconnect(context.Background()))
		}
		return r, func() error { return client.Disconnect(context.Background()) }, nil
	}

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	r := repo.New(gdb)
	if err := r.AutoMigrate(ctx); err != nil {
		return nil, nil, errors.Join(err, db.Close(gdb))
	}
	return r, func() error { return db.Close(gdb) }, nil
}
