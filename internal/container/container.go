package container

import (
	"context"
	"fmt"

	"bbt/exporter/internal/assembler"
	"bbt/exporter/internal/client"
	"bbt/exporter/internal/config"
	"bbt/exporter/internal/feed"
	"bbt/exporter/internal/resolver"
	"bbt/exporter/internal/service"

	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config *config.Config
	Client client.PrestaShopClient

	Categories   *resolver.CategoryResolver
	Vat          *resolver.VatResolver
	Combinations *resolver.CombinationResolver
	Assembler    *assembler.Assembler
	Feed         *feed.Writer

	Service *service.Service
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	shopClient := client.NewPrestaShopClient(cfg.Shop)
	container.Client = shopClient
	log.Infof("PrestaShop web service client created for %s", cfg.Shop.BaseURL())

	container.Categories = resolver.NewCategoryResolver(shopClient, cfg.Shop.LanguageID, cfg.Exporter.CategoryIgnore)
	container.Vat = resolver.NewVatResolver(shopClient)
	container.Combinations = resolver.NewCombinationResolver(shopClient, cfg.Shop.LanguageID)

	asm, err := assembler.New(
		container.Categories,
		container.Vat,
		container.Combinations,
		assembler.Options{
			ShopURL:                 cfg.Shop.BaseURL(),
			LanguageID:              cfg.Shop.LanguageID,
			ReferenceIgnorePatterns: cfg.Exporter.ReferenceIgnorePatterns,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assembler: %w", err)
	}
	container.Assembler = asm

	container.Feed = feed.NewWriter(cfg.Exporter.Template)

	container.Service = service.NewService(
		shopClient,
		container.Vat,
		asm,
		container.Feed,
		cfg.Exporter.Output,
	)

	return container, nil
}

// Run executes a full catalogue export
func (c *Container) Run(ctx context.Context) error {
	_, err := c.Service.Export(ctx)
	return err
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if err := c.Client.Close(); err != nil {
		return err
	}

	log.Info("Container shut down successfully")
	return nil
}
