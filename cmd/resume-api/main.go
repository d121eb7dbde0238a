// Command resume-api serves the resume management HTTP API.
//
// @title                       Resume API
// @version                     1.0
// @description                 Resume management service: accounts, resumes, public sharing and PDF export.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/resumeforge/resume-api/internal/api"
	"github.com/resumeforge/resume-api/internal/api/handler"
	"github.com/resumeforge/resume-api/internal/core/access"
	"github.com/resumeforge/resume-api/internal/core/auth"
	"github.com/resumeforge/resume-api/internal/core/service"
	"github.com/resumeforge/resume-api/internal/infrastructure/db/mongo"
	"github.com/resumeforge/resume-api/internal/infrastructure/db/redis"
	"github.com/resumeforge/resume-api/internal/infrastructure/pdf"
	"github.com/resumeforge/resume-api/internal/infrastructure/queue"
	"github.com/resumeforge/resume-api/internal/pkg/config"
	"github.com/resumeforge/resume-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "resume-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongo.NewUserRepository(db)
	resumeRepo := mongo.NewResumeRepository(db)
	auditRepo := mongo.NewAuditRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, resumeRepo, auditRepo); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Core ---
	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers,
		service.NewAuditService(auditRepo, logger.Component("audit")),
		logger.Component("audit-dispatcher"))

	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	policy := access.Observed(access.Default)
	cache := redis.NewPublicResumeCache(rdb, cfg.Public.CacheTTL)

	authService, err := service.NewAuthService(userRepo, tokens, hasher, dispatcher, logger.Component("auth"))
	if err != nil {
		log.Fatal().Err(err).Msg("auth service init failed")
	}
	userService := service.NewUserService(userRepo, resumeRepo, cache, hasher, policy, dispatcher, logger.Component("users"))
	resumeService := service.NewResumeService(service.ResumeDeps{
		Resumes:  resumeRepo,
		Users:    userRepo,
		Links:    service.NewPublicLinkAllocator(resumeRepo, cfg.Public.LinkMaxAttempts, logger.Component("public-links")),
		Cache:    cache,
		Renderer: pdf.NewRenderer(),
		Policy:   policy,
		Audit:    dispatcher,
		Log:      logger.Component("resumes"),
	})

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Log:        logger.Component("http"),
		Tokens:     tokens,
		Identities: service.NewIdentityResolver(userRepo),
		Policy:     policy,
		Auth:       authService,
		Users:      userService,
		Resumes:    resumeService,
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		TokenTTL:     tokens.TTL(),
		CookieSecure: cfg.HTTP.CookieSecure,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		AuthRate:     cfg.Auth.RatePerSec,
		AuthBurst:    cfg.Auth.RateBurst,
		EnableDebug:  cfg.EnableDebugRoutes,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// The dispatcher outlives the server so requests still in flight during
	// shutdown can publish their audit events.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	dispatcher.Start(auditCtx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	stopAudit()
	dispatcher.Wait()
	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
