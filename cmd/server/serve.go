package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/db"
	docs "github.com/snnyvrz/shelfshare/apps/library-api/internal/docs"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/handler"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	startTime := time.Now()

	cfg := config.Load()

	if loc, err := time.LoadLocation(cfg.TZ); err == nil {
		time.Local = loc
	} else {
		log.Printf("warning: unknown TZ %q, keeping %s", cfg.TZ, time.Local)
	}

	gin.SetMode(cfg.GinMode)

	e := gin.Default()

	e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	})

	e.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	docs.SwaggerInfo.BasePath = "/api/library"

	database := db.ConnectWithRetry(cfg)

	if err := db.Migrate(database); err != nil {
		return err
	}

	var (
		rdb      *redis.Client
		sessions auth.SessionStore
	)
	if cfg.UseRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warning: redis not reachable at %s: %v", cfg.RedisAddr, err)
		}
		sessions = auth.NewRedisSessionStore(rdb, cfg.SessionTTL)
	} else {
		log.Printf("REDIS_ADDR not set, keeping sessions in memory")
		sessions = auth.NewMemorySessionStore(cfg.SessionTTL)
	}

	var tokens *auth.TokenVerifier
	if cfg.JWTSecret != "" {
		tokens = auth.NewTokenVerifier(cfg.JWTSecret)
	}

	authn := auth.NewAuthenticator(repository.NewGormMemberRepository(database), tokens, sessions)

	healthHandler := handler.NewHealthHandler(database, rdb, startTime, appVersion)
	healthHandler.RegisterRoutes(e)

	handler.RegisterLibraryRoutes(e.Group("/api/library"), database, authn, cfg.SecureCookies())

	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
