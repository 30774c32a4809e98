package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"memoboard/api/internal/ads"
	"memoboard/api/internal/app"
	"memoboard/api/internal/cache"
	"memoboard/api/internal/config"
	"memoboard/api/internal/ratelimit"
	"memoboard/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dataStore := store.NewPostgresStore(db)

	var objects *ads.ObjectStore
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		objects, err = ads.NewObjectStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("object store connection failed: %v", err)
		}
		log.Printf("Serving ad creatives via presigned URLs from %s/%s", cfg.MinioEndpoint, cfg.MinioBucket)
	}
	catalog := ads.NewCatalog(ads.DefaultCreatives(), objects)

	var service *app.Service
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for the memo list cache")
		memoCache, err := cache.NewMemoCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer memoCache.Close()
		service = app.NewWithCache(cfg, dataStore, memoCache, catalog)
	} else {
		service = app.New(cfg, dataStore, catalog)
	}

	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax)
	go func() {
		ticker := time.NewTicker(cfg.RateLimitWindow)
		defer ticker.Stop()
		for range ticker.C {
			limiter.Sweep()
		}
	}()

	httpServer := app.NewHTTPServer(service, limiter, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Memo board API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
