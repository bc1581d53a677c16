package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/electronics_store/internal/cache"
	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/google"
	"github.com/Skotchmaster/electronics_store/internal/httpserver"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/internal/search"
	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/storage"
	"github.com/Skotchmaster/electronics_store/pkg/config"
	pkgdb "github.com/Skotchmaster/electronics_store/pkg/db"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
	loggingmw "github.com/Skotchmaster/electronics_store/pkg/middleware/logging"
	"github.com/Skotchmaster/electronics_store/pkg/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	r := &repo.GormRepo{DB: db}
	if err := r.SeedRoles(context.Background()); err != nil {
		log.Fatalf("seed roles: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		logger.Info("kafka producer enabled", "brokers", cfg.KafkaBrokers)
	}

	images := &storage.ImageStore{Root: cfg.ImageRoot}

	products := &service.ProductService{
		Repo:     r,
		Images:   images,
		Events:   publisher,
		CacheTTL: cfg.CacheTTL,
	}

	if cfg.ESURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		es, err := search.NewClient(ctx, search.ClientConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, logger)
		cancel()
		if err != nil {
			logger.Warn("elasticsearch unavailable, searching the database", "error", err)
		} else {
			products.Index = &search.ProductIndex{ES: es, Index: cfg.ESProductIndex}
		}
	}

	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err = cache.NewRedis(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, caching products in memory", "error", err)
			redisCache = nil
		}
	}
	if redisCache != nil {
		products.Cache = redisCache
	} else {
		products.Cache = cache.NewMemory()
	}

	users := &service.UserService{Repo: r, Images: images, Events: publisher}
	authSvc := &service.AuthService{
		Repo:    r,
		Users:   users,
		Refresh: &service.RefreshService{Repo: r, TTL: cfg.RefreshTokenTTL},
		Tokens:  &tokens.Issuer{Secret: cfg.JWTAccessSecret, Name: cfg.JWTIssuer, TTL: cfg.AccessTokenTTL},
	}
	if cfg.GoogleClientID != "" {
		gc, err := google.NewClient(context.Background(), cfg.GoogleClientID)
		if err != nil {
			logger.Warn("google sign-in disabled", "error", err)
		} else {
			authSvc.Google = gc
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(echomw.BodyLimit("10M"))

	httpserver.Register(e, &httpserver.Deps{
		Auth:  &httpserver.AuthHTTP{Svc: authSvc},
		Users: &httpserver.UserHTTP{Svc: users},
		Categories: &httpserver.CategoryHTTP{
			Svc:      &service.CategoryService{Repo: r, Images: images, Events: publisher, Products: products},
			Products: products,
		},
		Products:  &httpserver.ProductHTTP{Svc: products},
		Carts:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: publisher}},
		Orders:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: publisher}},
		JWTSecret: cfg.JWTAccessSecret,
		Ready:     ping(db),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	if producer != nil {
		_ = producer.Close()
	}
	if redisCache != nil {
		_ = redisCache.Close()
	}
	_ = pkgdb.Close(db)

	logger.Info("server stopped")
}

func ping(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
