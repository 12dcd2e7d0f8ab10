package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ats-gateway/internal/ats"
	"ats-gateway/internal/config"
	"ats-gateway/internal/database"
	dbpostgres "ats-gateway/internal/database/postgres"
	"ats-gateway/internal/events"
	"ats-gateway/internal/infrastructure/cache"
	"ats-gateway/internal/infrastructure/messaging/kafka"
	"ats-gateway/internal/infrastructure/persistence/postgres"
	"ats-gateway/internal/pkg/jwt"
	"ats-gateway/internal/pkg/logger"
	"ats-gateway/internal/resource"
	"ats-gateway/internal/usecase/account"
	ucauth "ats-gateway/internal/usecase/auth"
	"ats-gateway/internal/usecase/gateway"
	"ats-gateway/internal/ws"
)

const connectTimeout = 30 * time.Second

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger logger.Logger

	DB      database.DB
	Redis   *cache.Redis
	Kafka   *kafka.Publisher
	Hub     *ws.Hub
	Catalog *ats.Catalog

	Operators *postgres.OperatorRepository
	Audits    *postgres.AuditRepository

	Auth    *ucauth.Service
	Account *account.Service
	Gateway *gateway.Service
}

func NewContainer(ctx context.Context, cfg config.Config, lggr logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: lggr}

	catalog, err := NewCatalog(cfg.Upstream, lggr)
	if err != nil {
		return nil, err
	}
	c.Catalog = catalog

	if !cfg.Database.Enabled() {
		return nil, errors.New("database is required to serve operators")
	}
	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	db, err := dbpostgres.Connect(connCtx, cfg.Database, lggr.Named("postgres"))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.DB = db
	c.Operators = postgres.NewOperatorRepository(db)
	c.Audits = postgres.NewAuditRepository(db)

	c.Redis = cache.NewRedis(ctx, cfg.Redis, lggr)
	c.Hub = ws.NewHub(lggr)

	publishers := events.Fanout{c.Hub}
	if cfg.Kafka.Enabled() {
		p, err := kafka.NewPublisher(cfg.Kafka, lggr)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Kafka = p
		publishers = append(publishers, p)
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	c.Auth = ucauth.NewService(c.Operators, jwtSvc, cache.NewTokenRevocations(c.Redis), lggr)
	c.Account = account.NewService(catalog.Auth(), c.Redis, cfg.Account.ForgotPasswordCooldown, lggr)
	c.Gateway = gateway.NewService(catalog, c.Audits, publishers, lggr)

	return c, nil
}

// NewCatalog builds the upstream transport and resource catalog. The CLI uses
// it without the rest of the container.
func NewCatalog(cfg config.UpstreamConfig, lggr logger.Logger) (*ats.Catalog, error) {
	cred, err := resource.NewBasicCredential(cfg.Identity, cfg.Secret)
	if err != nil {
		return nil, err
	}
	t, err := resource.NewTransport(resource.TransportConfig{
		BaseURL:    cfg.APIURL,
		Credential: cred,
		Timeout:    cfg.Timeout,
		Debug:      cfg.Debug,
	}, lggr)
	if err != nil {
		return nil, err
	}
	return ats.NewCatalog(t, ats.Definitions())
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Kafka != nil {
		errs = append(errs, c.Kafka.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
