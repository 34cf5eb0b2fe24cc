package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bookmarkapi/bookmark-api/internal/config"
	"github.com/bookmarkapi/bookmark-api/internal/crypto"
	"github.com/bookmarkapi/bookmark-api/internal/handler"
	"github.com/bookmarkapi/bookmark-api/internal/logging"
	"github.com/bookmarkapi/bookmark-api/internal/middleware"
	"github.com/bookmarkapi/bookmark-api/internal/repository"
	"github.com/bookmarkapi/bookmark-api/internal/router"
	"github.com/bookmarkapi/bookmark-api/internal/service"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Warn("no .env file found, using environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, bookmarks, closeStore, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := crypto.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTExpiry)
	if err != nil {
		return err
	}
	hasher := crypto.NewPasswordHasher(crypto.DefaultHashParams())

	authService := service.NewAuthService(users, hasher, tokens, service.AuthOptions{
		MinPasswordLength: cfg.MinPasswordLength,
	})
	userService := service.NewUserService(users)
	bookmarkService := service.NewBookmarkService(bookmarks)

	h := router.New(router.Deps{
		Logger:         logger,
		Guard:          middleware.NewGuard(authService, logger),
		Auth:           handler.NewAuthHandler(authService, logger),
		Users:          handler.NewUserHandler(userService, logger),
		Bookmarks:      handler.NewBookmarkHandler(bookmarkService, logger),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.StorageDriver),
			zap.Duration("token_ttl", tokens.TTL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (service.UserStore, service.BookmarkStore, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		return repository.NewMemoryUserRepository(), repository.NewMemoryBookmarkRepository(), func() {}, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	return repository.NewUserRepository(db), repository.NewBookmarkRepository(db), func() { db.Close() }, nil
}
