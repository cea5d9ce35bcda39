package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	envcfg "github.com/Skotchmaster/loja/pkg/config"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	ServiceName string
	Host        string
	Port        string
	LogLevel    string

	StoreDriver   string
	DatabaseURL   string
	AutoMigrate   bool
	MongoURI      string
	MongoDatabase string

	JWTSecret []byte
	TokenTTL  time.Duration

	StripeSecretKey      string
	StripePublishableKey string
	// AmountFromCart makes /create-payment-intent charge the cart total.
	AmountFromCart bool
	// AllowRoleOnRegister lets anonymous callers register with role=admin.
	AllowRoleOnRegister bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr string
	CacheTTL  time.Duration

	CORSOrigins []string
}

func Load() *Config {
	return &Config{
		ServiceName: envcfg.EnvDefault("SERVICE_NAME", "loja"),
		Host:        envcfg.EnvDefault("HOST", "0.0.0.0"),
		Port:        envcfg.EnvDefault("PORT", "8000"),
		LogLevel:    envcfg.EnvDefault("LOG_LEVEL", "info"),

		StoreDriver:   strings.ToLower(envcfg.EnvDefault("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:   envcfg.EnvDefault("DATABASE_URL", ""),
		AutoMigrate:   envcfg.EnvBoolDefault("DB_AUTO_MIGRATE", true),
		MongoURI:      envcfg.EnvDefault("MONGO_URI", ""),
		MongoDatabase: envcfg.EnvDefault("MONGO_DB", "loja"),

		JWTSecret: []byte(envcfg.EnvDefault("JWT_SECRET", "")),
		TokenTTL:  envcfg.EnvDurationDefault("TOKEN_TTL", 2*time.Hour),

		StripeSecretKey:      envcfg.EnvDefault("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: envcfg.EnvDefault("STRIPE_PUBLISHABLE_KEY", ""),
		AmountFromCart:       envcfg.EnvBoolDefault("PAYMENT_AMOUNT_FROM_CART", false),
		AllowRoleOnRegister:  envcfg.EnvBoolDefault("ALLOW_ROLE_ON_REGISTER", true),

		KafkaBrokers: envcfg.CSV(envcfg.EnvDefault("KAFKA_BROKERS", "")),

		ESURL:      envcfg.EnvDefault("ES_URL", ""),
		ESUser:     envcfg.EnvDefault("ES_USER", ""),
		ESPassword: envcfg.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    envcfg.EnvDefault("ES_INDEX", "products"),

		RedisAddr: envcfg.EnvDefault("REDIS_ADDR", ""),
		CacheTTL:  envcfg.EnvDurationDefault("CACHE_TTL", 5*time.Minute),

		CORSOrigins: envcfg.CSV(envcfg.EnvDefault("CORS_ORIGINS", "*")),
	}
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Validate reports every missing or malformed required setting at once.
func (c *Config) Validate() error {
	var missing envcfg.Missing
	missing.NonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	missing.NonEmpty(c.StripeSecretKey, "STRIPE_SECRET_KEY")

	var errs []error
	switch c.StoreDriver {
	case DriverPostgres:
		missing.NonEmpty(c.DatabaseURL, "DATABASE_URL")
	case DriverMongo:
		missing.NonEmpty(c.MongoURI, "MONGO_URI")
		missing.NonEmpty(c.MongoDatabase, "MONGO_DB")
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if strings.HasPrefix(c.StripeSecretKey, "pk_") {
		errs = append(errs, errors.New("STRIPE_SECRET_KEY holds a publishable key"))
	}

	return errors.Join(append([]error{missing.Err()}, errs...)...)
}
