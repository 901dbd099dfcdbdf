// Package app wires the storefront together: storage, session, REST clients,
// cart and activity events, created once from a Config.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/guitar-shop/internal/api"
	"github.com/example/guitar-shop/internal/auth"
	"github.com/example/guitar-shop/internal/catalog"
	"github.com/example/guitar-shop/internal/config"
	"github.com/example/guitar-shop/internal/domain/cart"
	"github.com/example/guitar-shop/internal/domain/checkout"
	"github.com/example/guitar-shop/internal/infrastructure/kafka"
	"github.com/example/guitar-shop/internal/infrastructure/store"
	"github.com/example/guitar-shop/internal/logger"
	"go.uber.org/zap"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// App is the storefront's application state
type App struct {
	Config  config.Config
	Log     *zap.Logger
	Storage store.Storage
	Session *auth.Session
	Auth    *auth.Authenticator
	API     *api.Client
	Catalog *catalog.Client
	Cart    *cart.Store

	// Producer is nil when no Kafka brokers are configured
	Producer *kafka.Producer

	closers []func() error
}

// New opens the configured storage backend and builds every component on
// top of it. The cart is restored from storage before New returns.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Config: cfg, Log: log}

	backend, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Storage = store.Prefixed(backend, cfg.StorageProfile)

	a.Session = auth.NewSession(a.Storage, logger.Component(log, "session"))
	a.API = api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, a.Session, logger.Component(log, "api"))
	a.Auth = auth.NewAuthenticator(a.API, a.Session, logger.Component(log, "auth"))
	a.Catalog = catalog.NewClient(a.API)

	var publisher cart.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		a.Producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, a.Producer.Close)
		publisher = a.Producer
		log.Debug("activity events enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	a.Cart = cart.NewStore(ctx, a.cartID(), a.Storage, publisher, logger.Component(log, "cart"))
	return a, nil
}

func (a *App) cartID() string {
	if a.Config.StorageProfile == "" {
		return "cart"
	}
	return "cart-" + a.Config.StorageProfile
}

func (a *App) openStorage(ctx context.Context) (store.Storage, error) {
	cfg := a.Config
	switch cfg.StorageBackend {
	case "memory":
		return store.NewMemoryStore(), nil

	case "file", "":
		a.Log.Debug("using file storage", zap.String("path", cfg.StoragePath))
		return store.NewFileStore(cfg.StoragePath), nil

	case "postgres":
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		ps := store.NewPostgresStore(db)
		if err := ps.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to create storage table: %w", err)
		}
		return ps, nil

	case "redis":
		client, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return store.NewRedisStore(client, 0), nil

	case "dynamodb":
		client, err := store.NewDynamoClient(ctx)
		if err != nil {
			return nil, err
		}
		return store.NewDynamoStore(client, cfg.DynamoTable), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StorageBackend)
	}
}

// NewCheckout starts a checkout over the app's cart
func (a *App) NewCheckout() *checkout.Checkout {
	var publisher checkout.EventPublisher
	if a.Producer != nil {
		publisher = a.Producer
	}
	return checkout.New(
		a.Cart,
		checkout.NewHTTPSubmitter(a.API),
		a.Catalog,
		publisher,
		logger.Component(a.Log, "checkout"),
	)
}

// NewActivityConsumer reads the activity topic. It requires Kafka brokers.
func (a *App) NewActivityConsumer(groupID string) (*kafka.Consumer, error) {
	if len(a.Config.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is not set")
	}
	return kafka.NewConsumer(a.Config.KafkaBrokers, a.Config.KafkaTopic, groupID, logger.Component(a.Log, "activity")), nil
}

// Close releases connections in reverse order of opening
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
