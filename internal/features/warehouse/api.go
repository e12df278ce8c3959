package warehouse

import (
	"github.com/gofiber/fiber/v2"
)

type WarehouseApi struct {
	WarehouseController *WarehouseController
}

func NewWarehouseApi(warehouseController *WarehouseController) *WarehouseApi {
	return &WarehouseApi{
		WarehouseController: warehouseController,
	}
}

func (api *WarehouseApi) Setup(app *fiber.App) {
	group := app.Group("/api/warehouses")

	group.Get("/", api.WarehouseController.ListWarehouses)
	group.Get("/distribution/plan", api.WarehouseController.PlanDistribution)
	group.Post("/distribution", api.WarehouseController.Distribute)
	group.Patch("/:id/percentage", api.WarehouseController.UpdatePercentage)
	group.Put("/:id/stock/:productId", api.WarehouseController.SetStockQuantity)
	group.Get("/:id/export", api.WarehouseController.ExportWarehouse)
}
