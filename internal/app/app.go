package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/edunexus/internal/cache"
	"github.com/dropDatabas3/edunexus/internal/config"
	"github.com/dropDatabas3/edunexus/internal/email"
	httpx "github.com/dropDatabas3/edunexus/internal/http"
	authctl "github.com/dropDatabas3/edunexus/internal/http/controllers/auth"
	healthctl "github.com/dropDatabas3/edunexus/internal/http/controllers/health"
	instctl "github.com/dropDatabas3/edunexus/internal/http/controllers/institute"
	authsvc "github.com/dropDatabas3/edunexus/internal/http/services/auth"
	instsvc "github.com/dropDatabas3/edunexus/internal/http/services/institute"
	"github.com/dropDatabas3/edunexus/internal/infra/tenantsql"
	"github.com/dropDatabas3/edunexus/internal/jwt"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
	"github.com/dropDatabas3/edunexus/internal/rate"
	"github.com/dropDatabas3/edunexus/internal/security/otp"
	"github.com/dropDatabas3/edunexus/internal/store/pg"
	"github.com/dropDatabas3/edunexus/internal/tenantcode"
)

// App es el contenedor armado: todas las dependencias construidas y
// conectadas, listas para servir.
type App struct {
	Cfg     *config.Config
	Store   *pg.Store
	Cache   cache.Client
	Tenants *tenantsql.Manager
	Server  *httpx.Server
}

// New construye el grafo completo de dependencias.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("app: store: %w", err)
	}
	if cfg.Flags.Migrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("app: migrate: %w", err)
		}
	}

	cacheClient, err := cache.New(cfg.Cache)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("app: cache: %w", err)
	}

	issuer, err := jwt.NewIssuer(cfg.JWT.Issuer, cfg.JWT.Ed25519Seed, cfg.AccessTTL())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("app: jwt: %w", err)
	}

	tenants := tenantsql.NewManager(cfg.Storage.TenantDSNTemplate)

	sender := &email.SMTPSender{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		From:               cfg.SMTP.From,
		User:               cfg.SMTP.Username,
		Pass:               cfg.SMTP.Password,
		TLSMode:            cfg.SMTP.TLS,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	}
	mailer := email.NewVerificationMailer(sender, cfg.App.Name)

	params := otp.Params{
		Digits:     cfg.OTP.Digits,
		BcryptCost: cfg.OTP.BcryptCost,
		TTL:        cfg.OTPTTL(),
	}

	otpSvc := instsvc.NewOTPService(store.Institutes, mailer, params)
	regSvc := instsvc.NewRegisterService(store.Institutes, tenantcode.NewGenerator(store.Institutes), otpSvc)
	dirSvc := instsvc.NewDirectoryService(store.Institutes, cacheClient)
	loginSvc := authsvc.NewLoginService(store.Institutes, store.Activity, tenants, issuer)

	limiter := buildLimiter(cfg, cacheClient)

	router := httpx.NewRouter(httpx.RouterDeps{
		Cfg:        cfg,
		Issuer:     issuer,
		Limiter:    limiter,
		Institutes: instctl.NewController(regSvc, otpSvc, dirSvc),
		Auth:       authctl.NewController(loginSvc),
		Health: healthctl.NewController(map[string]healthctl.Pinger{
			"postgres": store,
			"cache":    cacheClient,
		}),
	})

	return &App{
		Cfg:     cfg,
		Store:   store,
		Cache:   cacheClient,
		Tenants: tenants,
		Server:  httpx.NewServer(cfg, router),
	}, nil
}

// buildLimiter usa Redis si el cache corre sobre Redis; si no, passthrough.
func buildLimiter(cfg *config.Config, c cache.Client) rate.Limiter {
	if !cfg.Rate.Enabled {
		return rate.NoopLimiter{}
	}
	raw, ok := c.(interface{ Raw() *redis.Client })
	if !ok {
		logger.L().Warn("rate limiting enabled without redis cache, disabled")
		return rate.NoopLimiter{}
	}
	return rate.NewRedisLimiter(raw.Raw(), cfg.Cache.Redis.Prefix+":rate")
}

// Run sirve hasta que el contexto se cancela, después drena.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}

// Close libera pools y conexiones.
func (a *App) Close() {
	a.Tenants.Close()
	if err := a.Cache.Close(); err != nil {
		logger.L().Warn("cache close failed", logger.Err(err))
	}
	a.Store.Close()
}
