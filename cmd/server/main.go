package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/shopfront/backend/config"
	httpDelivery "github.com/shopfront/backend/internal/delivery/http"
	"github.com/shopfront/backend/internal/infrastructure/catalog"
	"github.com/shopfront/backend/internal/infrastructure/checkout"
	"github.com/shopfront/backend/internal/infrastructure/menu"
	"github.com/shopfront/backend/internal/infrastructure/storefront"
	"github.com/shopfront/backend/internal/pkg/logger"
	"github.com/shopfront/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Initialize("development")
		logger.Log.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Initialize(cfg.Server.Environment)
	defer logger.Sync()

	log := logger.Log
	log.Info("starting shopfront backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("shop", cfg.Shopify.Domain),
		zap.String("api_version", cfg.Shopify.APIVersion),
	)

	// Infrastructure
	endpoint := cfg.Shopify.StorefrontURL()
	store := catalog.NewStore(log.Named("catalog"))
	storefrontClient := storefront.NewClient(endpoint, cfg.Shopify.Token, cfg.Sync.RequestTimeout, log.Named("storefront"))
	menuClient := menu.NewClient(cfg.Menu.URL, cfg.Sync.RequestTimeout, log.Named("menu"))
	checkoutClient := checkout.NewClient(endpoint, cfg.Shopify.Token, cfg.Sync.RequestTimeout, log.Named("checkout"))

	// Usecase layer
	catalogService := usecase.NewCatalogService(
		store,
		storefrontClient,
		menuClient,
		usecase.CatalogServiceConfig{
			FirstPageSize: cfg.Sync.FirstPageSize,
			NextPageSize:  cfg.Sync.NextPageSize,
		},
		log.Named("sync"),
	)
	cartService := usecase.NewCartService(checkoutClient, log.Named("cart"))

	log.Info("sync configured",
		zap.Int("first_page_size", cfg.Sync.FirstPageSize),
		zap.Int("next_page_size", cfg.Sync.NextPageSize),
		zap.Duration("request_timeout", cfg.Sync.RequestTimeout),
	)

	// Delivery
	handler := httpDelivery.NewHandler(catalogService, cartService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
