package main

import (
	"context"
	"log"
	"os"

	"github.com/Skotchmaster/shop_cli/internal/auth"
	"github.com/Skotchmaster/shop_cli/internal/catalog"
	"github.com/Skotchmaster/shop_cli/internal/cli"
	"github.com/Skotchmaster/shop_cli/internal/config"
	"github.com/Skotchmaster/shop_cli/internal/logging"
	"github.com/Skotchmaster/shop_cli/internal/models"
	"github.com/Skotchmaster/shop_cli/internal/otp"
	"github.com/Skotchmaster/shop_cli/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Menus own stdout; structured logs go to stderr.
	logger := logging.New(os.Stderr, cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	codes := otp.NewService(store.New[map[string]string](cfg.CodesPath()))
	if err := codes.Init(ctx); err != nil {
		logger.Error("init_error", "doc", cfg.CodesPath(), "error", err)
		os.Exit(1)
	}

	sellers := auth.NewService("seller", store.New[[]models.User](cfg.SellersPath()), codes)
	buyers := auth.NewService("buyer", store.New[[]models.User](cfg.BuyersPath()), codes)
	cat := catalog.NewService(store.New[[]models.CategoryGroup](cfg.ProductsPath()))

	app := cli.NewApp(sellers, buyers, cat, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		logger.Error("run_error", "error", err)
		os.Exit(1)
	}
}
