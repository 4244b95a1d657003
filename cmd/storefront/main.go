package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/media"
	"storefront/internal/orders"
	"storefront/internal/products"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.DevSecret {
		logger.Warn("using development signing key; set STOREFRONT_JWT_SECRET")
	}

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(ctx, dbConn, "sql"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userStore := auth.NewStore(dbConn)
	if err := userStore.SeedFromFile(ctx, cfg.UsersPath); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	authSvc := auth.NewService(userStore, cfg.JWTSecret, cfg.TokenTTL)

	productStore := products.NewStore(dbConn)
	if err := productStore.SeedFromFile(ctx, cfg.CatalogPath); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	orderStore := orders.NewStore(dbConn)

	uploader, err := media.New(ctx, media.Config{
		Endpoint:   cfg.S3Endpoint,
		Region:     cfg.S3Region,
		Bucket:     cfg.S3Bucket,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		PublicBase: cfg.S3PublicBase,
	})
	if err != nil {
		log.Fatalf("init media uploader: %v", err)
	}
	if uploader == nil {
		logger.Info("media uploads disabled; no S3 endpoint configured")
	}

	handler := httpserver.NewRouter(logger, authSvc, productStore, orderStore, uploader, cfg.CORSOrigin)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
