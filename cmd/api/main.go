// Command api serves the splitledger HTTP API.
//
// @title           Splitledger API
// @version         1.0
// @description     Expense splitting between friends and groups, with per-user balances.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fkhayef/splitledger/internal/config"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/pkg/logging"
	mw "github.com/fkhayef/splitledger/pkg/middleware"
)

func main() {
	tokenFor := flag.Int64("token-for", 0, "print a signed token for this user id and exit")
	flag.Parse()

	// Load .env file
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)
	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if *tokenFor > 0 {
		if err := printToken(cfg, *tokenFor); err != nil {
			logger.Error("Failed to issue token", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func printToken(cfg *config.Config, userID int64) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	token, err := mw.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL).Generate(userID)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func databaseConfig(cfg *config.Config, logger *slog.Logger) database.Config {
	return database.Config{
		Dialect:         database.Dialect(cfg.DatabaseDriver),
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		Logger:          logger,
	}
}

func authenticator(cfg *config.Config) mw.Authenticator {
	if cfg.AuthMode == config.AuthModeJWT {
		return mw.BearerAuth{Tokens: mw.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)}
	}
	return mw.HeaderAuth{}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := databaseConfig(cfg, logger)
	if cfg.MigrateOnStart {
		if err := database.Migrate(dbCfg); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		logger.Info("Migrations applied")
	}

	db, err := database.Open(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to database", "driver", cfg.DatabaseDriver)

	if cfg.AuthMode == config.AuthModeHeader {
		logger.Warn("Header authentication enabled; do not expose this server publicly")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(db, logger, metrics.New(), authenticator(cfg)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
