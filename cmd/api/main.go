package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/exercisetracker/internal/api"
	"example.com/exercisetracker/internal/auth"
	"example.com/exercisetracker/internal/cache"
	"example.com/exercisetracker/internal/config"
	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/persistence/memory"
	"example.com/exercisetracker/internal/persistence/postgres"
	"example.com/exercisetracker/internal/publish"
	httptransport "example.com/exercisetracker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo := buildRepository(ctx, cfg)
	defer closeRepo()

	opts := []domain.Option{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic, cfg.HTTPTimeout)
		defer closeLogged("kafka publisher", publisher)
		opts = append(opts, domain.WithPublisher(publisher))
		log.Printf("publishing exercise events to %s on %v", cfg.EventsTopic, cfg.KafkaBrokers)
	}
	if cfg.CacheInvalidationURL != "" {
		opts = append(opts, domain.WithInvalidator(cache.NewHTTPInvalidator(cfg.CacheInvalidationURL, cfg.CacheInvalidationToken, cfg.HTTPTimeout)))
		log.Printf("cache invalidator enabled -> %s", cfg.CacheInvalidationURL)
	}

	service := domain.NewService(repo, opts...)
	handler := api.NewHandler(service)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, httptransport.CORS(cfg.CORSOrigin)(httptransport.Logger(authMiddleware.Wrap(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("exercise-service listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func buildRepository(ctx context.Context, cfg config.Config) (domain.Repository, func()) {
	if cfg.PostgresURL == "" {
		log.Printf("POSTGRES_URL not set, using in-memory repository")
		return memory.NewRepository(), func() {}
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	repo := postgres.NewRepository(pool)
	if cfg.PostgresMigrate {
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}
	log.Printf("using postgres repository")
	return repo, pool.Close
}

func closeLogged(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Printf("%s close failed: %v", name, err)
	}
}
