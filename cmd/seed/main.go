package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	common_models "go-catalog/internal/common/models"
	"go-catalog/internal/config"
	"go-catalog/internal/database"
	"go-catalog/internal/features/warehouse"
	"go-catalog/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type seedFile string

// Seed creates the default warehouses from a JSON file. Existing warehouses
// keep their percentage and stock.
func Seed(
	lc fx.Lifecycle,
	warehouseRepo warehouse.WarehouseRepository,
	path seedFile,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Seeding warehouses", zap.String("file", string(path)))

				b, err := os.ReadFile(string(path))
				if err != nil {
					logger.Error("Failed to read seed file", zap.Error(err))
					return
				}
				var warehouses []common_models.Warehouse
				if err := json.Unmarshal(b, &warehouses); err != nil {
					logger.Error("Failed to parse seed file", zap.Error(err))
					return
				}

				ctx := context.Background()
				for i := range warehouses {
					w := &warehouses[i]
					created, err := warehouseRepo.EnsureWarehouse(ctx, w)
					if err != nil {
						logger.Error("Failed to seed warehouse", zap.String("warehouse", w.Name), zap.Error(err))
						continue
					}
					if created {
						logger.Info("Warehouse created", zap.String("warehouse", w.Name), zap.Float64("percentage", w.Percentage))
					} else {
						logger.Info("Warehouse exists, skipping", zap.String("warehouse", w.Name))
					}
				}

				logger.Info("Seeding complete", zap.Int("count", len(warehouses)))
			}()
			return nil
		},
	})
}

func main() {
	file := flag.String("file", "cmd/seed/data/warehouses.json", "warehouse seed file")
	flag.Parse()

	app := fx.New(
		fx.Supply(seedFile(*file)),
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			warehouse.NewWarehouseRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
