package main

import (
	"fmt"

	"go-catalog/internal/config"
	"go-catalog/internal/connectors"
	"go-catalog/internal/features/catalog"
	"go-catalog/internal/features/catalog_import"
	"go-catalog/internal/features/warehouse"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CatalogBackend is the collaborator chosen by CATALOG_BACKEND, exposed
// under each interface the features depend on.
type CatalogBackend struct {
	fx.Out

	Sink      catalog_import.CatalogSink
	Stock     warehouse.Backend
	Products  catalog.ProductSource
	Connector connectors.Connector
}

func NewCatalogBackend(
	cfg *config.Config,
	logger *zap.Logger,
	mongoConnector *connectors.MongoConnector,
	productRepo catalog.ProductRepository,
	warehouseRepo warehouse.WarehouseRepository,
) (CatalogBackend, error) {
	switch cfg.CatalogBackend {
	case config.BackendMongo:
		return CatalogBackend{
			Sink:      productRepo,
			Stock:     warehouse.ComposeBackend(warehouseRepo, productRepo),
			Products:  productRepo,
			Connector: mongoConnector,
		}, nil
	case config.BackendPOS:
		pos := connectors.NewPOSConnector(cfg, logger)
		return CatalogBackend{
			Sink:      pos,
			Stock:     pos,
			Products:  pos,
			Connector: pos,
		}, nil
	default:
		return CatalogBackend{}, fmt.Errorf("unknown CATALOG_BACKEND %q: use %q or %q",
			cfg.CatalogBackend, config.BackendMongo, config.BackendPOS)
	}
}
