package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/paibudget/budget-service/internal/command"
	"github.com/paibudget/budget-service/internal/events"
	"github.com/paibudget/budget-service/internal/handler"
	"github.com/paibudget/budget-service/internal/models"
	"github.com/paibudget/budget-service/internal/query"
	sharedredis "github.com/paibudget/budget-service/internal/redis"
	"github.com/paibudget/budget-service/internal/repository"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Create the schema if needed and serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// Optional Redis: view cache + event stream
	var (
		cache     *sharedredis.ViewCache[models.Transaction]
		publisher command.EventPublisher = events.Nop{}
	)
	if cfg.Redis.Enabled() {
		redis, err := sharedredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redis.Close()
		cache = sharedredis.NewViewCache[models.Transaction](redis.Client, repository.TransactionViewKeyPrefix, cfg.CacheTTL)
		publisher = events.NewPublisher(redis.Client, cfg.EventsMaxLen)
		slog.Info("redis enabled", "addr", cfg.Redis.Addr)
	}

	// CQRS: write repo, read repo
	writeRepo := repository.NewTransactionWriteRepository(db)
	readRepo := repository.NewTransactionReadRepository(db, cache)

	// Command + Query services
	commandSvc := command.NewTransactionCommandService(writeRepo, readRepo, publisher)
	querySvc := query.NewTransactionQueryService(readRepo)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.NewTransactionHandler(commandSvc, querySvc))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("budget service starting", "port", cfg.Port, "driver", cfg.Database.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// openDatabase connects and creates the schema. It runs before the server
// accepts any request.
func openDatabase(ctx context.Context) (*sql.DB, error) {
	db, err := repository.OpenDB(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := repository.EnsureSchema(ctx, db, cfg.Database.Driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
