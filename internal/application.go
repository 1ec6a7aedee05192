package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/chainreaction-backend/internal/config"
	"github.com/rocketscienceinc/chainreaction-backend/internal/repository"
	"github.com/rocketscienceinc/chainreaction-backend/internal/repository/storage"
	"github.com/rocketscienceinc/chainreaction-backend/internal/service"
	"github.com/rocketscienceinc/chainreaction-backend/internal/telemetry"
	"github.com/rocketscienceinc/chainreaction-backend/internal/usecase"
	"github.com/rocketscienceinc/chainreaction-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	telemetryConf, err := telemetry.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load telemetry config: %w", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetryConf)
	if err != nil {
		return fmt.Errorf("could not set up tracing: %w", err)
	}

	defer func() {
		if err = shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			log.Error("could not flush traces", "error", err)
		}
	}()

	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not migrate sqlite storage: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Game.TTL)
	moveRepo := repository.NewMoveRepository(sqliteStorage.Connection)
	statsRepo := repository.NewStatsRepository(sqliteStorage.Connection)
	gameUseCase := usecase.NewGameManager(logger, conf.Game, gameRepo, moveRepo, statsRepo, service.NewBotService())

	server := rest.NewServer(conf.HTTPPort, rest.NewRouter(rest.NewHandlers(logger, gameUseCase)))

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")

		if err = server.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Error("could not stop HTTP server", "error", err)
		}

		return nil
	}
}
