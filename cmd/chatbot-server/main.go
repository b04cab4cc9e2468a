// cmd/chatbot-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fashionstore-chatbot/internal/api"
	"fashionstore-chatbot/internal/catalog"
	"fashionstore-chatbot/internal/chatbot"
	"fashionstore-chatbot/internal/chatbot/classifier"
	"fashionstore-chatbot/internal/chatbot/composer"
	"fashionstore-chatbot/internal/chatbot/intents"
	"fashionstore-chatbot/internal/chatbot/links"
	"fashionstore-chatbot/internal/common/config"
	"fashionstore-chatbot/internal/common/database"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/models"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting chatbot server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("catalog_backend", cfg.Database.CatalogBackend),
	)

	ctx := context.Background()
	pingers := map[string]api.Pinger{}

	// --- Catalog store selection ---
	var store catalog.Store
	switch cfg.Database.CatalogBackend {
	case "elasticsearch":
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		store = catalog.NewElasticsearchStore(es.Client, cfg.Database.Elasticsearch.Index, log)
		pingers["elasticsearch"] = es
	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		store = catalog.NewPostgresStore(pg.DB, log)
		pingers["postgres"] = pg
	}

	// --- Optional Redis search cache ---
	if cfg.Chatbot.CacheTTL > 0 {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			ttl := time.Duration(cfg.Chatbot.CacheTTL) * time.Millisecond
			store = catalog.NewCachedStore(store, rdb.Client, ttl, log)
			pingers["redis"] = rdb
			zapLog.Info("catalog search cache enabled", zap.Duration("ttl", ttl))
		}
	}

	// --- Intent table and classifier ---
	// A bad intents file degrades the classifier to keyword mode; it never
	// stops the server.
	table, err := intents.Load(cfg.Chatbot.IntentsPath)
	if err != nil {
		zapLog.Warn("intents file load failed, classifier will run in keyword mode",
			zap.String("path", cfg.Chatbot.IntentsPath),
			zap.Error(err),
		)
	}

	cls := classifier.NewLazy(func() classifier.Classifier {
		var all []models.Intent
		if table != nil {
			all = table.All()
		}
		return classifier.Build(all, cfg.Chatbot.ConfidenceThreshold, log)
	})

	resolver := links.NewTableResolver("")
	comp := composer.New(table, resolver, cfg.Chatbot.SearchIntentTag, log)
	svc := chatbot.NewService(cls, comp, store, cfg.Chatbot.SearchIntentTag, cfg.Chatbot.MaxResults, log)

	handler := api.NewRouter(api.Deps{
		Service:  svc,
		Store:    store,
		PageSize: cfg.Chatbot.ListingPageSize,
		Log:      log,
		Pingers:  pingers,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("server stopped")
}
