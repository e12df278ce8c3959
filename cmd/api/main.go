package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-catalog/internal/common/api"
	"go-catalog/internal/config"
	"go-catalog/internal/connectors"
	"go-catalog/internal/database"
	"go-catalog/internal/features/catalog"
	"go-catalog/internal/features/catalog_import"
	"go-catalog/internal/features/system"
	"go-catalog/internal/features/warehouse"
	"go-catalog/internal/locking"
	"go-catalog/internal/logger"
	"go-catalog/internal/middleware"

	_ "go-catalog/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
	logger.Info("All routes registered", zap.Int("count", len(routes)))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("Server listening",
					zap.String("port", cfg.Port),
					zap.String("catalog_backend", cfg.CatalogBackend),
					zap.String("commit_policy", cfg.ImportCommitPolicy))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	importRepo catalog_import.ImportRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for name, repo := range map[string]interface{}{"import_jobs": importRepo, "products": productRepo} {
					idx, ok := repo.(indexer)
					if !ok {
						continue
					}
					if err := idx.EnsureIndexes(ctx); err != nil {
						logger.Error("Failed to ensure indexes", zap.String("collection", name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

// StartRetention runs the import-job retention sweep for the app lifetime.
func StartRetention(lc fx.Lifecycle, scheduler *catalog_import.RetentionScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}

// @title           Catalog Import API
// @version         1.0
// @description     Bulk product import and warehouse stock distribution.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			catalog_import.NewImportRepository,
			catalog.NewProductRepository,
			warehouse.NewWarehouseRepository,

			// Catalog backend (mongo or pos)
			connectors.NewMongoConnector,
			NewCatalogBackend,
			locking.NewDistributionLock,

			// Initialize Service
			catalog_import.NewPipeline,
			catalog_import.NewImportService,
			catalog_import.NewRetentionScheduler,
			catalog.NewProductService,
			warehouse.NewWarehouseService,

			// Initialize Controller
			catalog_import.NewImportController,
			catalog.NewProductController,
			warehouse.NewWarehouseController,

			// Initialize Routes
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(catalog_import.NewImportApi),
			AsRoute(catalog.NewCatalogApi),
			AsRoute(warehouse.NewWarehouseApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartRetention,
			InitializeIndexes,
		),
	)

	app.Run()
}
