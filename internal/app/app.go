package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/catalog"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/missing"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/reference"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/spell"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/spellref"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/provider/extraction"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/provider/mediawiki"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/rediscache"
	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate"
	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/validator"
	"github.com/heartmarshall/grimoire-backend/internal/auth"
	"github.com/heartmarshall/grimoire-backend/internal/config"
	spellrefsvc "github.com/heartmarshall/grimoire-backend/internal/service/spellref"
	"github.com/heartmarshall/grimoire-backend/internal/transport/middleware"
	"github.com/heartmarshall/grimoire-backend/internal/transport/rest"
)

// Compile-time interface assertions.
var (
	_ hydrate.WikiSource     = (*mediawiki.Client)(nil)
	_ hydrate.ReferenceStore = (*reference.Repo)(nil)
	_ hydrate.CatalogStore   = (*catalog.Repo)(nil)
)

// Infra holds the connections shared by every command: the Postgres pool and
// the optional Redis page cache.
type Infra struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	// Cache is nil when no Redis address is configured.
	Cache *rediscache.Cache

	txm *postgres.TxManager
}

// Open connects to Postgres and, when configured, Redis. An unreachable
// cache is logged and disabled rather than failing the command.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infra, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	infra := &Infra{
		Config: cfg,
		Logger: logger,
		Pool:   pool,
		txm:    postgres.NewTxManager(pool),
	}

	if cfg.Cache.Enabled() {
		cache, err := rediscache.New(cfg.Cache)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("page cache: %w", err)
		}
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("page cache unavailable, continuing without it",
				slog.String("addr", cfg.Cache.RedisAddr),
				slog.String("error", err.Error()),
			)
			cache.Close() //nolint:errcheck
		} else {
			infra.Cache = cache
		}
	}

	return infra, nil
}

// Close releases the pool and the cache connection.
func (i *Infra) Close() {
	if i.Cache != nil {
		i.Cache.Close() //nolint:errcheck
	}
	i.Pool.Close()
}

// Wiki builds the MediaWiki client, backed by the page cache when present.
func (i *Infra) Wiki() *mediawiki.Client {
	var cache mediawiki.Cache
	if i.Cache != nil {
		cache = i.Cache
	}
	return mediawiki.NewClient(i.Config.Wiki, cache, i.Logger)
}

// Pipeline builds the reference hydration pipeline.
func (i *Infra) Pipeline(dryRun bool) *hydrate.Pipeline {
	return hydrate.NewPipeline(
		i.Logger,
		i.Wiki(),
		reference.New(i.Pool, i.txm),
		catalog.New(i.Pool, i.txm),
		hydrate.Options{Wiki: i.Config.Wiki, DryRun: dryRun || i.Config.Hydrate.DryRun},
	)
}

// Syncer builds the spell reference CSV syncer.
func (i *Infra) Syncer() *spellrefsvc.Syncer {
	return spellrefsvc.NewSyncer(i.Logger, spellref.New(i.Pool, i.txm))
}

// Hydrator builds the spell hydrator. It needs the extraction API key.
func (i *Infra) Hydrator() (*spellrefsvc.Hydrator, error) {
	if i.Config.Extraction.APIKey == "" {
		return nil, errors.New("extraction: api_key is required to hydrate spells")
	}
	return spellrefsvc.NewHydrator(
		i.Logger,
		spellref.New(i.Pool, i.txm),
		spell.New(i.Pool, i.txm),
		missing.New(i.Pool),
		i.Wiki(),
		extraction.New(i.Config.Extraction, i.Logger, extractionOptions(i.Config.Extraction)...),
		i.txm,
		spellrefsvc.HydratorOptions{
			Policy:      validator.NewPolicy(i.Config.Validator),
			SearchLimit: i.Config.Wiki.SearchLimit,
		},
	), nil
}

func extractionOptions(cfg config.ExtractionConfig) []option.RequestOption {
	if cfg.BaseURL == "" {
		return nil
	}
	return []option.RequestOption{option.WithBaseURL(cfg.BaseURL)}
}

// Ledger returns the missing ledger for read-only listing. It needs no
// extraction key.
func (i *Infra) Ledger() *missing.Repo {
	return missing.New(i.Pool)
}

// Handler builds the HTTP API. stop releases its background workers.
func (i *Infra) Handler() (h http.Handler, stop func(), err error) {
	authCfg := i.Config.Auth
	if !authCfg.HasAdminAuth() {
		return nil, nil, errors.New("auth: configure admin_user/admin_password_hash or jwt_secret")
	}

	hydrator, err := i.Hydrator()
	if err != nil {
		return nil, nil, err
	}

	// Nil verifiers disable a scheme; keep them untyped nil for the interfaces.
	var tokens interface {
		ValidateAccessToken(string) (string, string, error)
	}
	if authCfg.HasJWT() {
		tokens = auth.NewJWTManager(authCfg.JWTSecret, authCfg.JWTIssuer, authCfg.TokenTTL)
	}
	var basic interface{ Verify(string, string) bool }
	if authCfg.HasBasic() {
		basic = auth.NewBasicVerifier(authCfg.AdminUser, authCfg.AdminPasswordHash)
	}

	var cachePinger interface {
		Ping(context.Context) error
	}
	if i.Cache != nil {
		cachePinger = i.Cache
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	router := rest.NewRouter(rest.RouterDeps{
		Health:       rest.NewHealthHandler(i.Pool, cachePinger, BuildVersion()),
		SpellRef:     rest.NewSpellRefHandler(hydrator, i.Logger),
		AdminAuth:    middleware.AdminAuth(basic, tokens, i.Logger),
		HydrateLimit: limiter.Limit(i.Config.Server.HydrateRatePerMinute),
		Logger:       i.Logger,
	})
	return router, limiter.Stop, nil
}
