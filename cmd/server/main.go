package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicepro/backend/internal/cache"
	"invoicepro/backend/internal/config"
	"invoicepro/backend/internal/httpapi"
	"invoicepro/backend/internal/printer"
	"invoicepro/backend/internal/render"
	"invoicepro/backend/internal/service"
	"invoicepro/backend/internal/store"
	"invoicepro/backend/internal/store/memory"
	pgstore "invoicepro/backend/internal/store/postgres"
	redisstore "invoicepro/backend/internal/store/redis"
	sqlitestore "invoicepro/backend/internal/store/sqlite"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("read .env: %v", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 3)

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage unavailable: %v", err)
	}
	closers = append(closers, closeStore)
	log.Printf("storage: %s", cfg.StorageDriver)

	documents := cache.DocumentCache(cache.NoopDocumentCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisDocumentCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop document cache", err)
		} else {
			documents = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("document cache: redis")
		}
	} else {
		log.Println("document cache: noop")
	}

	out := printer.Printer(printer.Discard{})
	if cfg.PrintSpoolDir != "" {
		spooler, err := printer.NewSpooler(cfg.PrintSpoolDir)
		if err != nil {
			log.Fatalf("print spool unavailable: %v", err)
		}
		out = spooler
		log.Printf("printer: spool %s", cfg.PrintSpoolDir)
	}

	renderer := render.New(render.Company{Name: cfg.CompanyName, Tagline: cfg.CompanyTagline})
	svc := service.New(kv, renderer, documents, cfg.DocumentCacheTTL, out)
	api := httpapi.New(svc, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("InvoicePro backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

// openStore connects the blob backend named by STORAGE_DRIVER. A configured
// backend that cannot be reached is fatal; there is no silent in-memory
// fallback.
func openStore(ctx context.Context, cfg config.Config) (store.KV, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		db, err := sqlitestore.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.DriverPostgres:
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case config.DriverRedis:
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKeyPrefix)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, err
		}
		return rs, rs.Close, nil
	case config.DriverMemory:
		log.Println("[server] WARN: memory storage selected, data is lost on restart")
		mem := memory.New()
		return mem, mem.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
